package main

import (
	"github.com/spf13/cobra"
)

// syncPushCmd represents the sync push command
var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write an environment to AWS Secrets Manager",
	Long: `Write an environment's secrets to AWS Secrets Manager, creating the secret
if it does not exist. Reading the values is audited by the server.

Example:
  envaultctl sync push --env 3b1f... --aws-secret web/production`,
	Run: func(cmd *cobra.Command, args []string) {
		target, err := newSyncTarget(cmd)
		if err != nil {
			fail("%v", err)
		}

		stop := startSpinner("Pushing to " + target.name)
		n, err := target.push(cmd.Context())
		stop()
		if err != nil {
			fail("Push failed: %v", err)
		}
		succeed("Pushed %d secrets to %s", n, target.name)
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
}
