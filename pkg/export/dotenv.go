package export

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/envault/envault/pkg/validate"
)

// needsQuoting lists the characters that force a dotenv value into double quotes
const needsQuoting = " \t#\"'\n\r\\"

// blank is the padding trimmed around keys, unquoted values and lines
const blank = " \t"

var dotenvEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// ExportDotenv writes KEY=value lines. A value containing whitespace, a
// hash, a quote, a backslash or a line break is double quoted and escaped.
func ExportDotenv(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range sorted(entries) {
		buf.WriteString(e.Key)
		buf.WriteByte('=')
		if dotenvNeedsQuotes(e.Value) {
			buf.WriteByte('"')
			buf.WriteString(dotenvEscaper.Replace(e.Value))
			buf.WriteByte('"')
		} else {
			buf.WriteString(e.Value)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func dotenvNeedsQuotes(v string) bool {
	return strings.ContainsAny(v, needsQuoting) || strings.IndexFunc(v, unicode.IsSpace) >= 0
}

// unquoteDouble reads a double-quoted value starting after the opening
// quote. It returns false if the closing quote is missing.
func unquoteDouble(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(s[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
		case c == '"':
			return b.String(), true
		default:
			b.WriteByte(c)
		}
	}
	return "", false
}

func parseDotenvValue(raw string) (string, bool) {
	raw = strings.TrimLeft(raw, blank)
	switch {
	case strings.HasPrefix(raw, `"`):
		return unquoteDouble(raw[1:])
	case strings.HasPrefix(raw, `'`):
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return "", false
		}
		return raw[1 : end+1], true
	}

	if idx := strings.Index(raw, " #"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.Trim(raw, blank), true
}

// ParseDotenv reads KEY=value lines. Blank lines, comments and an `export `
// prefix are ignored. Double-quoted values are unescaped and single-quoted
// values are taken literally. Lines without '=', with an invalid key or with
// an unterminated quote are skipped and counted. A line may be as long as
// the whole input.
func ParseDotenv(data []byte) ([]Entry, int, error) {
	var (
		entries []Entry
		skipped int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), max(64*1024, len(data)+1))
	for scanner.Scan() {
		line := strings.Trim(scanner.Text(), blank+"\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			skipped++
			continue
		}
		key := strings.Trim(line[:eq], blank)
		if !validate.IsSecretKey(key) {
			skipped++
			continue
		}
		value, ok := parseDotenvValue(line[eq+1:])
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading dotenv: %w", err)
	}
	return entries, skipped, nil
}
