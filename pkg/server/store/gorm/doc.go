// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// This package contains concrete implementations that use GORM for database
// operations. The interfaces they implement are defined in pkg/server/store.
//
// The SecretsStore must be given a session carrying a cipher (see
// db.WithCipher); secret values are encrypted and decrypted by model hooks.
package gorm
