package store

import "github.com/envault/envault/pkg/model"

// CLITokensStore abstracts CLI token storage operations
type CLITokensStore interface {
	// GenerateToken issues a token. The plaintext is only ever returned here.
	// expiresInDays <= 0 uses the configured default; values above the
	// maximum are clamped and reported in the Warning field.
	GenerateToken(userID, name string, expiresInDays int) (*model.GeneratedCLIToken, error)

	// RevokeToken returns false if the token is not the user's or is already revoked
	RevokeToken(userID, tokenID string) (bool, error)

	// ListTokens returns token metadata, never the token itself
	ListTokens(userID string) ([]model.CLIToken, error)

	// AuthenticateToken returns the user id owning an active token
	AuthenticateToken(plainToken string) (string, error)
}
