package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "envaultctl",
	Short: "Run and operate the envault server",
	Long: `envaultctl runs the envault API server, manages its database and data key,
and talks to a running server on behalf of a logged-in user.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
