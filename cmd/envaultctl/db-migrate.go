package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date.

Example:
  envaultctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		stop := startSpinner("Running migrations...")
		status, changed, err := db.Migrate("")
		stop()
		if err != nil {
			fail("Migration failed: %v", err)
		}
		if !changed {
			succeed("No migrations to run, database is at version %d", status.Version)
			return
		}
		succeed("Migrated to version %d", status.Version)
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  envaultctl db down      # Rollback 1 migration
  envaultctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				fail("steps must be a number: %q", args[0])
			}
			steps = n
		}

		fmt.Printf("Rolling back %d migration(s)...\n", steps)
		status, err := db.MigrateDown("", steps)
		if err != nil {
			fail("Rollback failed: %v", err)
		}
		succeed("Rolled back to version %d", status.Version)
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		status, err := db.Status("")
		if err != nil {
			fail("Failed to get status: %v", err)
		}
		fmt.Println(formatMigrationStatus(status))
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func formatMigrationStatus(status db.MigrationStatus) string {
	if status.None {
		return "No migrations have been applied yet"
	}
	out := fmt.Sprintf("Current version: %d (source: %s)", status.Version, db.MigrationSource)
	if status.Dirty {
		out += "\n" + uiWarning.Sprintf("Warning: database is in a dirty state")
	}
	return out
}
