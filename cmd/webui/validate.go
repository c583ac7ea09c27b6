package main

import (
	"fmt"

	"github.com/jpalmerr/webui/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a webui configuration file without starting the server.

This command parses the YAML, expands environment variables, reads the
template file and compiles the template.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  webui validate -c webui.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	mode := "html"
	if cfg.Headless() {
		mode = "json"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:         %d\n", cfg.Port)
	fmt.Printf("  Mode:         %s\n", mode)
	fmt.Printf("  Update:       %s\n", cfg.Update)
	fmt.Printf("  State fields: %d\n", len(cfg.State))

	return nil
}
