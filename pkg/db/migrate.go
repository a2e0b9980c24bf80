package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
)

// MigrationsTable is where golang-migrate records the schema version
const MigrationsTable = "go_schema_migrations"

var ErrNoDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// MigrationStatus describes the applied schema version
type MigrationStatus struct {
	Version uint
	Dirty   bool
	// None is true when no migration has been applied yet
	None bool
}

// URLWithMigrationsTable appends the x-migrations-table parameter to dbURL
func URLWithMigrationsTable(dbURL string) string {
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=" + MigrationsTable
	}
	return dbURL + "?x-migrations-table=" + MigrationsTable
}

func newMigrate(dbURL string) (*migrate.Migrate, error) {
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, ErrNoDatabaseURL
	}

	m, err := createMigrateInstance(URLWithMigrationsTable(dbURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations. It returns the resulting status and
// whether anything changed.
func Migrate(dbURL string) (MigrationStatus, bool, error) {
	m, err := newMigrate(dbURL)
	if err != nil {
		return MigrationStatus{}, false, err
	}
	defer func() { _, _ = m.Close() }()

	changed := true
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return MigrationStatus{}, false, fmt.Errorf("migration failed: %w", err)
		}
		changed = false
	}

	status, err := statusOf(m)
	return status, changed, err
}

// MigrateDown rolls back steps migrations
func MigrateDown(dbURL string, steps int) (MigrationStatus, error) {
	if steps < 1 {
		return MigrationStatus{}, fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, err := newMigrate(dbURL)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Steps(-steps); err != nil {
		return MigrationStatus{}, fmt.Errorf("rollback failed: %w", err)
	}
	return statusOf(m)
}

// Status reports the applied schema version
func Status(dbURL string) (MigrationStatus, error) {
	m, err := newMigrate(dbURL)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer func() { _, _ = m.Close() }()

	return statusOf(m)
}

func statusOf(m *migrate.Migrate) (MigrationStatus, error) {
	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return MigrationStatus{None: true}, nil
		}
		return MigrationStatus{}, err
	}
	return MigrationStatus{Version: version, Dirty: dirty}, nil
}
