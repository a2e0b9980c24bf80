// Package blog renders the Markdown articles managed from the admin area.
package blog

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/envault/envault/pkg/model"
)

// DefaultExcerptLength is used when an article is saved without an excerpt
const DefaultExcerptLength = 200

// Raw HTML in articles is omitted from the output
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Render converts GitHub-flavoured Markdown to HTML
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Slugify lowercases title and joins its runs of letters and digits with '-'
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Heading is an entry of an article's table of contents
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

func nodeText(n ast.Node, source []byte, buf *bytes.Buffer) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.AutoLink:
			buf.Write(c.Label(source))
		default:
			nodeText(child, source, buf)
		}
	}
}

func parse(source []byte) ast.Node {
	return markdown.Parser().Parse(text.NewReader(source))
}

// Headings lists the headings of a Markdown document with their anchor ids
func Headings(source string) []Heading {
	src := []byte(source)
	doc := parse(src)

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			var buf bytes.Buffer
			nodeText(heading, src, &buf)
			id := ""
			if v, ok := heading.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			headings = append(headings, Heading{
				Level: heading.Level,
				Text:  strings.TrimSpace(buf.String()),
				ID:    id,
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// PlainText returns the prose of a Markdown document without markup.
// Code blocks and raw HTML are dropped.
func PlainText(source string) string {
	src := []byte(source)
	doc := parse(src)

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		if n.Type() == ast.TypeBlock && n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeInline {
			nodeText(n, src, &buf)
			buf.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}

// Excerpt returns at most n runes of an article's plain text. A shortened
// excerpt ends at a word boundary followed by an ellipsis.
func Excerpt(source string, n int) string {
	plain := PlainText(source)
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(plain) <= n {
		return plain
	}
	if n == 1 {
		return "…"
	}

	runes := []rune(plain)[:n-1]
	cut := len(runes)
	for i := len(runes) - 1; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}

// Prepare fills in a missing slug and excerpt before an article is saved
func Prepare(article *model.BlogArticle) {
	article.Title = strings.TrimSpace(article.Title)
	if article.Slug == "" {
		article.Slug = Slugify(article.Title)
	} else {
		article.Slug = Slugify(article.Slug)
	}
	if strings.TrimSpace(article.Excerpt) == "" {
		article.Excerpt = Excerpt(article.Content, DefaultExcerptLength)
	}
}
