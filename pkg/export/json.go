package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/envault/envault/pkg/validate"
)

// ExportJSON writes a flat object of keys to values, two-space indented
// with keys sorted
func ExportJSON(entries []Entry) ([]byte, error) {
	obj := make(map[string]string, len(entries))
	for _, e := range entries {
		obj[e.Key] = e.Value
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseJSON reads a flat object. Scalar values are kept as their text; keys
// that are invalid or hold objects or arrays are skipped.
func ParseJSON(data []byte) ([]Entry, int, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, 0, fmt.Errorf("invalid JSON object: %w", err)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		entries []Entry
		skipped int
	)
	for _, k := range keys {
		raw := bytes.TrimSpace(obj[k])
		if !validate.IsSecretKey(k) || len(raw) == 0 || raw[0] == '{' || raw[0] == '[' {
			skipped++
			continue
		}

		var value string
		if raw[0] == '"' {
			if err := json.Unmarshal(raw, &value); err != nil {
				skipped++
				continue
			}
		} else if string(raw) != "null" {
			value = strings.TrimSpace(string(raw))
		}
		entries = append(entries, Entry{Key: k, Value: value})
	}
	return entries, skipped, nil
}
