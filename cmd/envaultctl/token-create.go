package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/audit"
)

// tokenCreateCmd represents the token create command
var tokenCreateCmd = &cobra.Command{
	Use:   "create <user-id>",
	Short: "Issue a CLI token for a user",
	Long: `Issue a CLI token for a user and print it.

The token is shown once; only its hash is stored.

Example:
  envaultctl token create 7f9c... --name laptop --days 30`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		days, _ := cmd.Flags().GetInt("days")

		database, _, err := connectDB()
		if err != nil {
			fail("%v", err)
		}

		generated, err := tokensStore(database).GenerateToken(args[0], name, days)
		event := audit.TokenEvent{
			UserID:       args[0],
			Name:         name,
			Operation:    audit.TokenIssue,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		if generated != nil {
			event.TokenID = generated.ID
		}
		audit.Log(event)
		if err != nil {
			fail("Failed to create token: %v", err)
		}

		if generated.Warning != "" {
			fmt.Fprintln(os.Stderr, uiWarning.Sprintf("%s", generated.Warning))
		}
		fmt.Fprintf(os.Stderr, "Token %s expires %s\n", generated.ID, generated.ExpiresAt.Format("2006-01-02"))
		fmt.Println(generated.Token)
	},
}

func init() {
	tokenCmd.AddCommand(tokenCreateCmd)
	tokenCreateCmd.Flags().StringP("name", "n", "envaultctl", "Token name")
	tokenCreateCmd.Flags().IntP("days", "d", 0, "Days until expiry (0 uses the configured default)")
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
