package export

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/envault/envault/pkg/validate"
)

// ExportYAML writes one `KEY: "value"` line per entry. Values are always
// double quoted.
func ExportYAML(entries []Entry) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range sorted(entries) {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	if len(doc.Content) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseYAML reads a flat mapping. Scalars are kept as written; invalid keys
// and nested values are skipped.
func ParseYAML(data []byte) ([]Entry, int, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind == 0 {
		return nil, 0, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, 0, fmt.Errorf("invalid YAML: expected a mapping of keys to values")
	}

	mapping := doc.Content[0]
	var (
		entries []Entry
		skipped int
	)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k, v := mapping.Content[i], mapping.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode || !validate.IsSecretKey(k.Value) {
			skipped++
			continue
		}
		value := v.Value
		if v.Tag == "!!null" {
			value = ""
		}
		entries = append(entries, Entry{Key: k.Value, Value: value})
	}
	return entries, skipped, nil
}
