package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show envault configuration attributes and their sources",
	Long: `Show envault configuration attributes and their sources.

The values displayed reflect the current configuration file and environment.
They may differ from the values used by a running server.

Config file location: /etc/envault/envault.yml (or ENVAULT_CONFIG_PATH)

Example:
  envaultctl configuration show
  envaultctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		out, err := showConfiguration(output)
		if err != nil {
			fail("Failed to show configuration: %v", err)
		}
		fmt.Print(out)
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(output string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		out, err := cfg.FormatJSON()
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	case "text", "":
		return cfg.FormatText(), nil
	default:
		return "", fmt.Errorf("unknown output format %q", output)
	}
}
