package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legal-assistant/backend/pkg/config"
	appLogger "github.com/legal-assistant/backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "legal-assistant",
	Short: "Legal AI Assistant API server",
	Long:  `Serves the legal assistant HTTP and websocket API backed by a crew of legal specialist roles.`,
	RunE:  runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, extractCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and starts the global logger.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}
