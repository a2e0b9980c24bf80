package model

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/cipher"
)

type cipherContextKey struct{}

// ErrNoCipher is returned when a secret is read or written on a session
// that has no cipher attached.
var ErrNoCipher = errors.New("no cipher attached to database session")

// WithCipher attaches c to ctx for use by model hooks.
func WithCipher(ctx context.Context, c cipher.SymmetricCipher) context.Context {
	return context.WithValue(ctx, cipherContextKey{}, c)
}

func cipherForDB(tx *gorm.DB) (cipher.SymmetricCipher, error) {
	if tx == nil || tx.Statement == nil || tx.Statement.Context == nil {
		return nil, ErrNoCipher
	}
	c, ok := tx.Statement.Context.Value(cipherContextKey{}).(cipher.SymmetricCipher)
	if !ok || c == nil {
		return nil, ErrNoCipher
	}
	return c, nil
}
