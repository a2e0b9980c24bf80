package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/client"
	"github.com/envault/envault/pkg/clientconfig"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a server URL and CLI token",
	Long: `Verify a CLI token against the server and save it to the client config.

Example:
  envaultctl login --server https://vault.example.com --token envault_...`,
	Run: func(cmd *cobra.Command, args []string) {
		server, _ := cmd.Flags().GetString("server")
		token, _ := cmd.Flags().GetString("token")
		env, _ := cmd.Flags().GetString("env")

		cfg := &clientconfig.Config{Server: server, Token: token, DefaultEnvironment: env}
		email, err := login(cmd.Context(), clientConfigPath(), cfg)
		if err != nil {
			fail("Login failed: %v", err)
		}
		succeed("Logged in as %s", email)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().String("server", "", "envault server URL")
	loginCmd.Flags().String("token", "", "CLI token")
	loginCmd.Flags().String("env", "", "Default environment id")
	_ = loginCmd.MarkFlagRequired("server")
	_ = loginCmd.MarkFlagRequired("token")
}

// login checks the token with /whoami before saving anything
func login(ctx context.Context, path string, cfg *clientconfig.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	c, err := client.FromConfig(cfg)
	if err != nil {
		return "", err
	}
	who, err := c.Whoami(ctx)
	if err != nil {
		return "", err
	}
	if err := clientconfig.Save(path, cfg); err != nil {
		return "", fmt.Errorf("failed to save client config: %w", err)
	}
	if who.Email != "" {
		return who.Email, nil
	}
	return who.UserID, nil
}
