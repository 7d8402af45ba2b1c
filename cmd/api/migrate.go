package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/storage"
	appLogger "github.com/legal-assistant/backend/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the row store tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer appLogger.Sync()

		store, err := storage.Open(cfg.RowStore)
		if err != nil {
			return fmt.Errorf("failed to open row store: %w", err)
		}
		defer store.Close()

		if err := store.Migrate(context.Background()); err != nil {
			return fmt.Errorf("failed to migrate row store: %w", err)
		}

		appLogger.Info("Row store migrated", zap.String("driver", cfg.RowStore.Driver))
		return nil
	},
}
