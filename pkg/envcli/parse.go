package envcli

import (
	"strings"

	"github.com/envault/envault/pkg/export"
)

// ParseList reads `list` output. It accepts a JSON object, KEY=value lines or
// one bare key per line. Bare keys get an empty value.
func ParseList(out string) []export.Entry {
	trimmed := strings.TrimSpace(out)
	if strings.HasPrefix(trimmed, "{") {
		if entries, _, err := export.ParseJSON([]byte(trimmed)); err == nil {
			return entries
		}
	}

	var entries []export.Entry
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if found {
			value = unquote(strings.TrimSpace(value))
		}
		entries = append(entries, export.Entry{Key: key, Value: value})
	}
	return entries
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
