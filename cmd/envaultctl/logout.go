package main

import (
	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/clientconfig"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved server URL and CLI token",
	Long: `Remove the client config written by login. The token itself stays valid
until it is revoked or expires.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := clientconfig.Clear(clientConfigPath()); err != nil {
			fail("Logout failed: %v", err)
		}
		succeed("Logged out")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
