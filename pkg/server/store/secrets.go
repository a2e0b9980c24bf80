package store

import "time"

// Secret represents a decrypted secret value with metadata
type Secret struct {
	ID            string
	EnvironmentID string
	Key           string
	Value         []byte
	Version       int
	UpdatedAt     time.Time
}

// SecretsStore abstracts secret storage operations
type SecretsStore interface {
	// ListSecrets returns the decrypted secrets of an environment sorted by key
	ListSecrets(environmentID string) ([]Secret, error)

	// GetSecret returns ErrSecretNotFound if the key is not set
	GetSecret(environmentID, key string) (*Secret, error)

	// UpsertSecret inserts a secret or replaces its value and bumps its
	// version. It returns the secret id.
	UpsertSecret(environmentID, key string, value []byte, userID string) (string, error)

	// DeleteSecret returns false if the secret doesn't exist
	DeleteSecret(secretID string) (bool, error)

	// SecretEnvironment returns the environment a secret belongs to
	SecretEnvironment(secretID string) (string, error)
}
