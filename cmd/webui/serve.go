package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/webui"
	"github.com/jpalmerr/webui/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the webui server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured state",
	Long: `Serve the state from a webui configuration file.

The server will:
  - Load configuration from the specified YAML file
  - Open the page in the default browser (unless --no-open or no_open)
  - Render the state on GET and merge updates on POST

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  webui serve -c webui.yaml
  webui serve -c webui.yaml --port 9100 --no-open`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("no-open", false, "do not open the page in a browser")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}
	if noOpen, _ := cmd.Flags().GetBool("no-open"); noOpen {
		cfg.NoOpen = true
	}

	logger.Info("config loaded",
		"state_fields", len(cfg.State),
		"headless", cfg.Headless(),
		"update", string(cfg.Update),
	)

	opts, err := config.BuildOptions(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build options: %w", err)
	}
	opts = append(opts, webui.WithLogger(logger))

	ui, err := webui.New(cfg.State, opts...)
	if err != nil {
		return fmt.Errorf("failed to create UI: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server, blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- ui.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
