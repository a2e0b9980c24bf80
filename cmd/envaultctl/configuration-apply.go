package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/config"
	"github.com/envault/envault/pkg/db"
)

// configurationApplyCmd represents the configuration apply command
var configurationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reload the envault server configuration",
	Long: `Validate the current configuration file and then signal the running
envault server to reload it.

Changes to environment variables are not picked up, since a process
environment is fixed once the process has started.

Use --test to validate configuration without signalling.

Example:
  envaultctl configuration apply
  envaultctl configuration apply --test`,
	Run: func(cmd *cobra.Command, args []string) {
		testMode, _ := cmd.Flags().GetBool("test")

		if err := applyConfiguration(testMode); err != nil {
			fail("Failed to apply configuration: %v", err)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationApplyCmd)
	configurationApplyCmd.Flags().Bool("test", false, "Validate configuration without reloading")
}

// validateConfiguration loads envault.yml and checks the required environment
func validateConfiguration() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if db.URL() == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if _, err := dataKeyCipher(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyConfiguration(testMode bool) error {
	fmt.Println("Validating configuration...")

	cfg, err := validateConfiguration()
	if err != nil {
		return err
	}
	fmt.Printf("Config file: %s\n", uiPath.Sprintf("%s", cfg.ConfigFilePath()))
	succeed("Configuration is valid.")

	if testMode {
		fmt.Println("Test mode: not signalling server.")
		return nil
	}

	output, err := exec.Command("pgrep", "-f", "envaultctl server").Output()
	if err != nil {
		return fmt.Errorf("no running envaultctl server found")
	}

	var pid int
	if _, err := fmt.Sscanf(string(output), "%d", &pid); err != nil {
		return fmt.Errorf("failed to parse PID: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}

	succeed("Sent reload signal to process %d", pid)
	return nil
}
