package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/export"
)

// secretsExportCmd represents the secrets export command
var secretsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download an environment's secrets",
	Long: `Download an environment's secrets in the given format.

Without --out the file is written to stdout. With --out a directory, the
server's suggested filename is used.

Example:
  envaultctl secrets export --env 3b1f... --format json
  envaultctl secrets export --env 3b1f... --out .`,
	Run: func(cmd *cobra.Command, args []string) {
		envFlag, _ := cmd.Flags().GetString("env")
		formatFlag, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

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

		file, err := c.Export(cmd.Context(), env, format)
		if err != nil {
			fail("Export failed: %v", err)
		}

		if out == "" {
			_, _ = os.Stdout.Write(file.Data)
			return
		}
		path, err := writeExport(out, file.Filename, file.Data)
		if err != nil {
			fail("%v", err)
		}
		succeed("Wrote %s", uiPath.Sprintf("%s", path))
	},
}

func init() {
	secretsCmd.AddCommand(secretsExportCmd)
	secretsExportCmd.Flags().StringP("out", "o", "", "Output file or directory")
}

// writeExport writes data to out, or to out/filename when out is a directory.
// Files are created readable by the owner only.
func writeExport(out, filename string, data []byte) (string, error) {
	path := out
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		if filename == "" {
			return "", fmt.Errorf("server sent no filename, pass a file path to --out")
		}
		path = out + string(os.PathSeparator) + filename
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
