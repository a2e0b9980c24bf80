package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// secretsCmd represents the secrets command
var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Export and import an environment's secrets",
	Long: `Export and import an environment's secrets through the envault API.

Run envaultctl login first.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'secrets' requires a subcommand (export, import, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(secretsCmd)
	secretsCmd.PersistentFlags().StringP("env", "e", "", "Environment id (defaults to the one saved by login)")
	secretsCmd.PersistentFlags().StringP("format", "f", "env", "File format (env, json, yaml, csv)")
}
