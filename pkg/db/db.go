package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/envault/envault/pkg/cipher"
	"github.com/envault/envault/pkg/model"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// Cipher is optional - if provided, it will be attached to the session context
	Cipher cipher.SymmetricCipher
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, ErrNoDatabaseURL
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(LogMode()),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return WithCipher(db, cfg.Cipher), nil
}

// WithCipher returns a session whose context carries c for secret encryption.
// A nil cipher returns db unchanged.
func WithCipher(db *gorm.DB, c cipher.SymmetricCipher) *gorm.DB {
	if c == nil {
		return db
	}
	return db.WithContext(model.WithCipher(db.Statement.Context, c))
}

// LogMode is silent unless ENVAULT_LOG_LEVEL=debug is set
func LogMode() logger.LogLevel {
	if os.Getenv("ENVAULT_LOG_LEVEL") == "debug" {
		return logger.Info
	}
	return logger.Silent
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
