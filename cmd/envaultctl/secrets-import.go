package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/client"
	"github.com/envault/envault/pkg/export"
)

// secretsImportCmd represents the secrets import command
var secretsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Upload a secrets file into an environment",
	Long: `Upload a secrets file into an environment. Existing keys are updated and
new keys are created. Invalid lines are skipped and counted.

Example:
  envaultctl secrets import --env 3b1f... .env
  envaultctl secrets import --env 3b1f... --format json secrets.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		envFlag, _ := cmd.Flags().GetString("env")
		formatFlag, _ := cmd.Flags().GetString("format")

		c, cfg, err := apiClient()
		if err != nil {
			fail("%v", err)
		}
		env, err := environmentFlag(envFlag, cfg)
		if err != nil {
			fail("%v", err)
		}
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			fail("%v", err)
		}

		stop := startSpinner("Importing " + args[0])
		result, err := importFile(cmd.Context(), c, env, format, args[0])
		stop()
		if err != nil {
			fail("Import failed: %v", err)
		}
		printImportResult(result)
	},
}

func init() {
	secretsCmd.AddCommand(secretsImportCmd)
}

func importFile(ctx context.Context, c *client.Client, env string, format export.Format, path string) (*client.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.Import(ctx, env, format, data)
}

func printImportResult(result *client.ImportResult) {
	succeed("Imported %d, skipped %d", result.Imported, result.Skipped)
	for _, msg := range result.Errors {
		fmt.Fprintln(os.Stderr, uiWarning.Sprintf("  %s", msg))
	}
}
