package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/legal-assistant/backend/internal/storage/postgres"
	"github.com/legal-assistant/backend/internal/storage/sqlite"
	"github.com/legal-assistant/backend/pkg/config"
	"github.com/legal-assistant/backend/pkg/logger"
)

var (
	_ Store = (*sqlite.Client)(nil)
	_ Store = (*postgres.Client)(nil)
	_ Store = Unavailable{}
)

// Open returns the configured row store. A postgres store with no endpoint,
// or a Supabase project URL without the database password, is replaced by
// Unavailable so the process still starts.
func Open(cfg config.RowStoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.NewClient(cfg.SQLitePath)

	case "postgres", "":
		if cfg.URL == "" {
			logger.Warn("Row store not configured, storage calls will fail")
			return Unavailable{Reason: "row store endpoint is not configured"}, nil
		}
		if _, err := postgres.DSN(cfg.URL, cfg.Password); err != nil {
			logger.Warn("Row store not configured, storage calls will fail", zap.Error(err))
			return Unavailable{Reason: err.Error()}, nil
		}
		return postgres.NewClient(cfg.URL, cfg.Password, postgres.Options{
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})

	default:
		return nil, fmt.Errorf("unknown row store driver: %s", cfg.Driver)
	}
}
