package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sparkyweld/sparky-client/internal/config"
	"github.com/sparkyweld/sparky-client/internal/logger"
)

// DB wraps the local SQLite connection used for the client cache.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// NewConnectSQLite opens (and creates if necessary) the SQLite cache file at
// cfg.DSN and verifies the connection with a ping.
func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Msg("error opening database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("dsn", cfg.DSN).Msg("connected to local cache")

	return &DB{DB: conn, logger: log}, nil
}

// Migrate creates the cache schema if it does not exist yet.
func (db *DB) Migrate() error {
	for _, stmt := range []string{createLocalSessionTable, createQuoteCacheTable} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate local cache: %w", err)
		}
	}
	return nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if dbFile == ":memory:" {
		return nil
	}
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
