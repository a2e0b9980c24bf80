package main

import (
	"fmt"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/cipher"
	"github.com/envault/envault/pkg/client"
	"github.com/envault/envault/pkg/clientconfig"
	"github.com/envault/envault/pkg/config"
	"github.com/envault/envault/pkg/db"
	"github.com/envault/envault/pkg/logging"
)

const (
	dataKeyEnv   = "ENVAULT_DATA_KEY"
	jwtSecretEnv = "ENVAULT_JWT_SECRET"
)

func dataKeyCipher() (cipher.SymmetricCipher, error) {
	dataKeyB64, ok := os.LookupEnv(dataKeyEnv)
	if !ok {
		return nil, fmt.Errorf("%s environment variable is required", dataKeyEnv)
	}
	c, err := cipher.NewSymmetricFromBase64(dataKeyB64)
	if err != nil {
		return nil, fmt.Errorf("bad %s: %w", dataKeyEnv, err)
	}
	return c, nil
}

// connectDB opens the database with the data key attached for secret
// encryption. Audit events are persisted to the same database.
func connectDB() (*gorm.DB, cipher.SymmetricCipher, error) {
	c, err := dataKeyCipher()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Connect(db.Config{Cipher: c})
	if err != nil {
		return nil, nil, err
	}
	if auditStore, err := audit.NewStore(db.URL()); err == nil && auditStore != nil {
		audit.SetStore(auditStore)
	}
	return database, c, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
}

func clientConfigPath() string {
	path, err := clientconfig.DefaultPath()
	if err != nil {
		fail("%v", err)
	}
	return path
}

// apiClient loads the saved client settings and builds an API client
func apiClient() (*client.Client, *clientconfig.Config, error) {
	cfg, err := clientconfig.Load(clientConfigPath())
	if err != nil {
		return nil, nil, err
	}
	c, err := client.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

// environmentFlag falls back to the saved default environment
func environmentFlag(value string, cfg *clientconfig.Config) (string, error) {
	if value != "" {
		return value, nil
	}
	if cfg != nil && cfg.DefaultEnvironment != "" {
		return cfg.DefaultEnvironment, nil
	}
	return "", fmt.Errorf("--env is required")
}
