package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/client"
	"github.com/envault/envault/pkg/export"
	envsync "github.com/envault/envault/pkg/sync"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy an environment to or from AWS Secrets Manager",
	Long: `Copy an environment's secrets to or from one AWS Secrets Manager secret,
stored as a JSON object. AWS credentials come from the default chain.

Run envaultctl login first.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'sync' requires a subcommand (push, pull)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.PersistentFlags().StringP("env", "e", "", "Environment id (defaults to the one saved by login)")
	syncCmd.PersistentFlags().String("aws-secret", "", "AWS Secrets Manager secret name")
	syncCmd.PersistentFlags().String("region", "", "AWS region (defaults to the AWS config)")
	_ = syncCmd.MarkPersistentFlagRequired("aws-secret")
}

type syncTarget struct {
	client   *client.Client
	env      string
	name     string
	provider envsync.Provider
}

func newSyncTarget(cmd *cobra.Command) (*syncTarget, error) {
	envFlag, _ := cmd.Flags().GetString("env")
	name, _ := cmd.Flags().GetString("aws-secret")
	region, _ := cmd.Flags().GetString("region")

	c, cfg, err := apiClient()
	if err != nil {
		return nil, err
	}
	env, err := environmentFlag(envFlag, cfg)
	if err != nil {
		return nil, err
	}
	provider, err := envsync.NewAWSProvider(cmd.Context(), region, nil)
	if err != nil {
		return nil, err
	}
	return &syncTarget{client: c, env: env, name: name, provider: provider}, nil
}

// push reads revealed values from the server and writes them remotely
func (t *syncTarget) push(ctx context.Context) (int, error) {
	secrets, err := t.client.ListSecrets(ctx, t.env, true)
	if err != nil {
		return 0, err
	}
	entries := make([]export.Entry, 0, len(secrets))
	for _, s := range secrets {
		entries = append(entries, export.Entry{Key: s.Key, Value: s.Value})
	}
	if err := t.provider.Push(ctx, t.name, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// pull reads the remote secret and imports it as a dotenv file
func (t *syncTarget) pull(ctx context.Context) (*client.ImportResult, error) {
	entries, err := t.provider.Pull(ctx, t.name)
	if err != nil {
		return nil, err
	}
	return t.client.Import(ctx, t.env, export.FormatEnv, export.ExportDotenv(entries))
}
