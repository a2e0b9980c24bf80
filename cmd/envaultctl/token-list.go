package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/model"
)

// tokenListCmd represents the token list command
var tokenListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a user's CLI tokens",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database, _, err := connectDB()
		if err != nil {
			fail("%v", err)
		}

		tokens, err := tokensStore(database).ListTokens(args[0])
		if err != nil {
			fail("Failed to list tokens: %v", err)
		}
		printTokens(tokens, time.Now())
	},
}

func init() {
	tokenCmd.AddCommand(tokenListCmd)
}

func printTokens(tokens []model.CLIToken, now time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEXPIRES\tLAST USED\tSTATUS")
	for _, t := range tokens {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.ExpiresAt.Format("2006-01-02"), lastUsed(t), tokenStatus(t, now))
	}
	_ = w.Flush()
}

func lastUsed(t model.CLIToken) string {
	if t.LastUsedAt == nil {
		return "never"
	}
	return t.LastUsedAt.Format(time.RFC3339)
}

func tokenStatus(t model.CLIToken, now time.Time) string {
	switch {
	case t.RevokedAt != nil:
		return "revoked"
	case !t.ExpiresAt.After(now):
		return "expired"
	default:
		return "active"
	}
}
