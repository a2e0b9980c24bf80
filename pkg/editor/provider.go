package editor

import (
	"context"
	"sort"
	"strings"

	"github.com/envault/envault/pkg/export"
	"github.com/envault/envault/pkg/scanner"
)

// NotSet is shown on hover for keys missing from the environment
const NotSet = "not set"

// SecretSource lists the secrets of an environment
type SecretSource interface {
	List(ctx context.Context, env string) ([]export.Entry, error)
}

// Completion is a key offered after a trigger. Detail holds the masked value.
type Completion struct {
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

// Hover describes the reference under the cursor
type Hover struct {
	Reference
	Value string `json:"value"`
	Set   bool   `json:"set"`
}

// Provider answers editor requests. Each request lists the secrets again.
type Provider struct {
	Source SecretSource
	Env    string
}

func NewProvider(source SecretSource, env string) *Provider {
	return &Provider{Source: source, Env: env}
}

// Complete returns the keys starting with the partial key after a trigger,
// sorted. It returns nil when linePrefix does not end in a trigger.
func (p *Provider) Complete(ctx context.Context, linePrefix string) ([]Completion, error) {
	prefix, ok := CompletionPrefix(linePrefix)
	if !ok {
		return nil, nil
	}
	entries, err := p.Source.List(ctx, p.Env)
	if err != nil {
		return nil, err
	}

	upper := strings.ToUpper(prefix)
	completions := []Completion{}
	for _, e := range entries {
		if strings.HasPrefix(strings.ToUpper(e.Key), upper) {
			completions = append(completions, Completion{Key: e.Key, Detail: scanner.Mask(e.Value)})
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].Key < completions[j].Key })
	return completions, nil
}

// Hover returns the masked value of the reference at col, or nil when the
// cursor is not on a reference
func (p *Provider) Hover(ctx context.Context, line string, col int) (*Hover, error) {
	ref, ok := FindReference(line, col)
	if !ok {
		return nil, nil
	}
	entries, err := p.Source.List(ctx, p.Env)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Key == ref.Key {
			return &Hover{Reference: ref, Value: scanner.Mask(e.Value), Set: true}, nil
		}
	}
	return &Hover{Reference: ref, Value: NotSet}, nil
}
