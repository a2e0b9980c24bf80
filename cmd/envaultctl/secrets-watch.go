package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/client"
	"github.com/envault/envault/pkg/export"
)

// secretsWatchCmd represents the secrets watch command
var secretsWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Import a secrets file every time it changes",
	Long: `Watch a secrets file and import it into an environment whenever it is
written. The file is imported once at startup.

Example:
  envaultctl secrets watch --env 3b1f... .env`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		envFlag, _ := cmd.Flags().GetString("env")
		formatFlag, _ := cmd.Flags().GetString("format")

		c, cfg, err := apiClient()
		if err != nil {
			fail("%v", err)
		}
		env, err := environmentFlag(envFlag, cfg)
		if err != nil {
			fail("%v", err)
		}
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			fail("%v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := watchSecrets(ctx, c, env, format, args[0]); err != nil {
			fail("Failed to watch %s: %v", args[0], err)
		}
	},
}

func init() {
	secretsCmd.AddCommand(secretsWatchCmd)
}

// isWatchedChange reports whether event rewrote path. Editors often save by
// renaming a temp file over the original, which shows up as Create.
func isWatchedChange(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// watchSecrets watches the file's directory so saves by rename are seen
func watchSecrets(ctx context.Context, c *client.Client, env string, format export.Format, filename string) error {
	path, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	reimport := func() {
		result, err := importFile(ctx, c, env, format, path)
		if err != nil {
			fmt.Fprintln(os.Stderr, uiError.Sprintf("Import failed: %v", err))
			return
		}
		printImportResult(result)
	}

	fmt.Printf("Watching %s (environment %s)\n", uiPath.Sprintf("%s", path), env)
	reimport()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedChange(event, path) {
				continue
			}
			fmt.Printf("[%s] %s changed, importing...\n", time.Now().Format(time.RFC3339), filepath.Base(path))
			reimport()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, uiWarning.Sprintf("Watcher error: %v", err))
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
