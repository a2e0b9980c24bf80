// Package sync copies an environment's secrets to and from a remote secret
// store. The remote holds a whole environment as one JSON object.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"github.com/envault/envault/pkg/export"
)

var (
	// ErrRemoteNotFound is returned by Pull when the remote secret does not exist
	ErrRemoteNotFound = errors.New("remote secret not found")
	// ErrAccessDenied is returned when the remote refuses the credentials
	ErrAccessDenied = errors.New("access denied to remote secret")
	// ErrEmptyName is returned for an empty remote secret name
	ErrEmptyName = errors.New("remote secret name cannot be empty")
)

// Provider pushes and pulls environments
type Provider interface {
	Push(ctx context.Context, name string, entries []export.Entry) error
	Pull(ctx context.Context, name string) ([]export.Entry, error)
}

// MemoryProvider keeps remote secrets in memory
type MemoryProvider struct {
	mu      gosync.Mutex
	secrets map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{secrets: make(map[string][]byte)}
}

// Push stores entries under name, replacing what was there
func (m *MemoryProvider) Push(ctx context.Context, name string, entries []export.Entry) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := export.ExportJSON(entries)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[name] = body
	return nil
}

// Pull returns the entries stored under name
func (m *MemoryProvider) Pull(ctx context.Context, name string) ([]export.Entry, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	body, ok := m.secrets[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotFound, name)
	}
	return decode(body)
}

func decode(body []byte) ([]export.Entry, error) {
	entries, _, err := export.ParseJSON(body)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
