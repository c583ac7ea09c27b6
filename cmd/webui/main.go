// Package main is the entry point for the webui CLI.
//
// webui can be used either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	webui serve -c webui.yaml    # Serve the page
//	webui validate -c webui.yaml # Validate configuration
//	webui version                # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "webui",
	Short: "A minimal local web UI for a single piece of state",
	Long: `webui serves one piece of state as a local web page.

GET renders the state through a template (or returns it as JSON when no
template is configured). POST updates the state. The page reloads itself
when the server restarts.

Quick start:
  1. Create a config file (webui.yaml)
  2. Run: webui serve -c webui.yaml
  3. The page opens at http://localhost:9001

Example config:
  port: 9001
  update: form
  state:
    name: world
  template: |
    <p>Hello {{.name}}</p>
    <form method="post"><input name="name"><button>Save</button></form>`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this webui binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webui %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
