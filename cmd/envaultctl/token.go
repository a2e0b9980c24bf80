package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/envault/envault/pkg/config"
	gormstore "github.com/envault/envault/pkg/server/store/gorm"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage CLI tokens",
	Long: `Issue, list and revoke CLI tokens for a user directly in the database.

These commands need DATABASE_URL and ENVAULT_DATA_KEY.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token' requires a subcommand (create, list, revoke)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func tokensStore(database *gorm.DB) *gormstore.CLITokensStore {
	cfg := config.Get()
	return gormstore.NewCLITokensStore(database, gormstore.TokenPolicy{
		DefaultExpiryDays: cfg.CLITokenDefaultExpiryDays,
		MaxExpiryDays:     cfg.CLITokenMaxExpiryDays,
		MaxTokens:         cfg.MaxCLITokens,
	})
}
