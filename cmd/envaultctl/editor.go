package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/editor"
	"github.com/envault/envault/pkg/envcli"
)

// editorCmd represents the editor command
var editorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Answer editor completion and hover requests",
	Long: `Answer completion and hover requests for environment variable references,
printing JSON for an editor extension to consume.

Secrets are listed through the envault CLI on PATH, run in --dir. Values are
always masked.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'editor' requires a subcommand (complete, hover)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(editorCmd)
	editorCmd.PersistentFlags().String("dir", ".", "Workspace directory the envault CLI runs in")
	editorCmd.PersistentFlags().StringP("env", "e", "", "Environment name")
	editorCmd.PersistentFlags().String("cli", envcli.DefaultBinary, "envault CLI binary")
	editorCmd.PersistentFlags().Duration("timeout", 5*time.Second, "Timeout for the envault CLI")
}

func editorProvider(cmd *cobra.Command) *editor.Provider {
	dir, _ := cmd.Flags().GetString("dir")
	env, _ := cmd.Flags().GetString("env")
	binary, _ := cmd.Flags().GetString("cli")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	runner := envcli.NewRunner(dir)
	runner.Binary = binary
	runner.Timeout = timeout
	return editor.NewProvider(runner, env)
}

func printJSON(v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(string(body))
}

func parseColumn(s string) (int, error) {
	col, err := strconv.Atoi(s)
	if err != nil || col < 0 {
		return 0, fmt.Errorf("column must be a non-negative number: %q", s)
	}
	return col, nil
}
