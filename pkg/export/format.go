package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFormat is returned for an unsupported format name
var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatEnv  Format = "env"
)

// Formats lists the supported formats
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatEnv}

// Entry is a single secret
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseFormat accepts a format name, case-insensitively. "dotenv" and
// ".env" are aliases for env, "yml" for yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "env", "dotenv":
		return FormatEnv, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the HTTP content type of a format
func ContentType(f Format) string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/x-yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileExtension returns the file extension of a format, including the dot
func FileExtension(f Format) string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".env"
	}
}

// Filename returns a download file name such as "api-production.env"
func Filename(base string, f Format) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-.")
	if name == "" {
		name = "secrets"
	}
	return name + FileExtension(f)
}

func sorted(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Export writes entries in format f
func Export(f Format, entries []Entry) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportCSV(entries), nil
	case FormatJSON:
		return ExportJSON(entries)
	case FormatYAML:
		return ExportYAML(entries)
	case FormatEnv:
		return ExportDotenv(entries), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Parse reads entries in format f. It returns the number of malformed
// records that were skipped.
func Parse(f Format, data []byte) ([]Entry, int, error) {
	switch f {
	case FormatCSV:
		entries, skipped := ParseCSV(data)
		return entries, skipped, nil
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatEnv:
		return ParseDotenv(data)
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
