// Package validate checks user input: secret keys and values, resource
// names, and request bodies tagged for go-playground/validator.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxKeyLength   = 256
	MaxValueLength = 64 * 1024
	MaxNameLength  = 64
)

var (
	ErrInvalidKey   = errors.New("invalid secret key")
	ErrValueTooLong = errors.New("secret value too long")
	ErrInvalidName  = errors.New("invalid name")
)

var (
	secretKeyPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
	namePattern      = regexp.MustCompile(`^[A-Za-z0-9 _.\-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Both registrations use fixed tags and cannot fail
	_ = v.RegisterValidation("secretkey", func(fl validator.FieldLevel) bool {
		return IsSecretKey(fl.Field().String())
	})
	_ = v.RegisterValidation("resourcename", func(fl validator.FieldLevel) bool {
		return IsName(fl.Field().String())
	})
	return v
}

// IsSecretKey reports whether key is an upper-case environment variable name
// of at most MaxKeyLength characters.
func IsSecretKey(key string) bool {
	return len(key) <= MaxKeyLength && secretKeyPattern.MatchString(key)
}

// IsName reports whether name is a valid project or environment name
func IsName(name string) bool {
	return len(name) >= 1 && len(name) <= MaxNameLength && namePattern.MatchString(name)
}

// SecretKey returns ErrInvalidKey for a key that is not an upper-case
// environment variable name
func SecretKey(key string) error {
	if !IsSecretKey(key) {
		return fmt.Errorf("%w: %q must match %s and be at most %d characters",
			ErrInvalidKey, key, secretKeyPattern.String(), MaxKeyLength)
	}
	return nil
}

// SecretValue returns ErrValueTooLong for values over MaxValueLength bytes
func SecretValue(value []byte) error {
	if len(value) > MaxValueLength {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrValueTooLong, len(value), MaxValueLength)
	}
	return nil
}

// Name returns ErrInvalidName for an invalid project or environment name
func Name(name string) error {
	if !IsName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Struct validates a request body by its validate tags
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s failed %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
	}
	return fmt.Errorf("validation error: %w", err)
}
