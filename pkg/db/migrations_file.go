//go:build !embed_migrations

package db

import (
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

// MigrationSource describes where migrations are read from
const MigrationSource = "file://" + defaultMigrationsPath

func migrationsPath() string {
	if p := os.Getenv("ENVAULT_MIGRATIONS_PATH"); p != "" {
		return p
	}
	return defaultMigrationsPath
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	return migrate.New("file://"+migrationsPath(), dbURL)
}
