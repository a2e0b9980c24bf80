package scanner

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Finding is a suspected credential. Match is masked; the raw secret never
// leaves the scanner.
type Finding struct {
	Pattern     string   `json:"pattern"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Match       string   `json:"match"`
}

// Scanner applies a fixed list of patterns. It holds no state between
// calls and is safe for concurrent use.
type Scanner struct {
	patterns []Pattern
}

// New returns a Scanner using patterns, or DefaultPatterns if none are given
func New(patterns ...Pattern) *Scanner {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Scanner{patterns: patterns}
}

// Patterns returns the patterns the scanner applies
func (s *Scanner) Patterns() []Pattern {
	return s.patterns
}

type dedupKey struct {
	pattern string
	line    int
}

// ScanText scans text line by line. A pattern matching several times on one
// line is reported once per call.
func (s *Scanner) ScanText(source, text string) []Finding {
	var findings []Finding
	seen := make(map[dedupKey]bool)

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		for _, p := range s.patterns {
			key := dedupKey{pattern: p.Name, line: lineNo}
			if seen[key] {
				continue
			}
			loc := p.Regexp.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			seen[key] = true

			match := line[loc[0]:loc[1]]
			secret := match
			if len(loc) >= 4 && loc[2] >= 0 {
				secret = line[loc[2]:loc[3]]
			}

			findings = append(findings, Finding{
				Pattern:     p.Name,
				Severity:    classifySeverity(match, p.Severity),
				Description: p.Description,
				Source:      source,
				Line:        lineNo,
				Column:      utf8.RuneCountInString(line[:loc[0]]) + 1,
				Match:       Mask(secret),
			})
		}
	}
	return findings
}

// ScanReader reads r fully and scans it as text
func (s *Scanner) ScanReader(source string, r io.Reader) ([]Finding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return s.ScanText(source, string(data)), nil
}

// ScanRows scans table rows cell by cell. Each finding's source is
// table.column#row, with rows numbered from 1.
func (s *Scanner) ScanRows(table string, rows []map[string]string) []Finding {
	var findings []Finding
	for i, row := range rows {
		columns := make([]string, 0, len(row))
		for col := range row {
			columns = append(columns, col)
		}
		sort.Strings(columns)

		for _, col := range columns {
			source := table + "." + col + "#" + strconv.Itoa(i+1)
			findings = append(findings, s.ScanText(source, row[col])...)
		}
	}
	return findings
}

// Mask keeps the first four and last two characters of value. Values of
// eight characters or fewer are masked entirely.
func Mask(value string) string {
	runes := []rune(value)
	if len(runes) <= 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("*", len(runes)-6) + string(runes[len(runes)-2:])
}

// Summary counts findings per severity
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Summarize counts findings per severity
func Summarize(findings []Finding) Summary {
	var sum Summary
	for _, f := range findings {
		sum.Total++
		switch f.Severity {
		case SeverityCritical:
			sum.Critical++
		case SeverityHigh:
			sum.High++
		case SeverityMedium:
			sum.Medium++
		case SeverityLow:
			sum.Low++
		default:
			sum.Info++
		}
	}
	return sum
}

// Filter returns the findings at or above threshold
func Filter(findings []Finding, threshold Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity.AtLeast(threshold) {
			out = append(out, f)
		}
	}
	return out
}

// Highest returns the most severe finding's severity, and false if there
// are no findings
func Highest(findings []Finding) (Severity, bool) {
	if len(findings) == 0 {
		return SeverityInfo, false
	}
	highest := findings[0].Severity
	for _, f := range findings[1:] {
		if f.Severity > highest {
			highest = f.Severity
		}
	}
	return highest, true
}
