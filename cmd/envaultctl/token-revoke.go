package main

import (
	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/audit"
)

// tokenRevokeCmd represents the token revoke command
var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <user-id> <token-id>",
	Short: "Revoke a user's CLI token",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		userID, tokenID := args[0], args[1]

		database, _, err := connectDB()
		if err != nil {
			fail("%v", err)
		}

		revoked, err := tokensStore(database).RevokeToken(userID, tokenID)
		audit.Log(audit.TokenEvent{
			UserID:       userID,
			TokenID:      tokenID,
			Operation:    audit.TokenRevoke,
			Success:      err == nil && revoked,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			fail("Failed to revoke token: %v", err)
		}
		if !revoked {
			fail("token not found or already revoked")
		}
		succeed("Revoked token %s", tokenID)
	},
}

func init() {
	tokenCmd.AddCommand(tokenRevokeCmd)
}
