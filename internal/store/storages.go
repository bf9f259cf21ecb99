package store

import (
	"context"
	"fmt"

	"github.com/sparkyweld/sparky-client/internal/config"
	"github.com/sparkyweld/sparky-client/internal/logger"
)

// ClientStorages groups all client-side cache repositories into a single
// value that can be passed around the service layer.
type ClientStorages struct {
	// Sessions persists the active session and credentials across runs.
	Sessions SessionRepository

	// Quotes caches the last fetched quote list for offline viewing.
	Quotes QuoteCacheRepository
}

// NewClientStorages initialises the client cache layer: opens the SQLite
// file from cfg, runs schema migration, and wires the repositories.
func NewClientStorages(cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating local cache...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Sessions: NewSessionRepository(db, log),
		Quotes:   NewQuoteCacheRepository(db, log),
	}, nil
}
