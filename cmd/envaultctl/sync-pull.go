package main

import (
	"github.com/spf13/cobra"
)

// syncPullCmd represents the sync pull command
var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Import an environment from AWS Secrets Manager",
	Long: `Read a secret from AWS Secrets Manager and import its keys into an
environment. Existing keys are overwritten.

Example:
  envaultctl sync pull --env 3b1f... --aws-secret web/production`,
	Run: func(cmd *cobra.Command, args []string) {
		target, err := newSyncTarget(cmd)
		if err != nil {
			fail("%v", err)
		}

		stop := startSpinner("Pulling from " + target.name)
		result, err := target.pull(cmd.Context())
		stop()
		if err != nil {
			fail("Pull failed: %v", err)
		}
		printImportResult(result)
	},
}

func init() {
	syncCmd.AddCommand(syncPullCmd)
}
