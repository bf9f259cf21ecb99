// Package store implements the client-side cache: a small SQLite database
// holding the persisted session (so a conversation survives a restart) and
// the last known quote list (so the quotes screen works while the backend is
// unreachable).
package store

import (
	"context"
	"time"

	"github.com/sparkyweld/sparky-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalSession is the persisted remainder of a previous run.
type LocalSession struct {
	SessionID string
	Tokens    models.TokenPair
	SavedAt   time.Time
}

// SessionRepository persists the active session and credentials locally.
type SessionRepository interface {
	// Save replaces the single persisted session row.
	Save(ctx context.Context, s LocalSession) error

	// Load returns the persisted session, or [ErrLocalSessionNotFound] when
	// none has been saved.
	Load(ctx context.Context) (LocalSession, error)

	// Clear removes the persisted session. A no-op when nothing is saved.
	Clear(ctx context.Context) error
}

// QuoteCacheRepository caches the last fetched quote list locally.
type QuoteCacheRepository interface {
	// Replace swaps the whole cached quote set.
	Replace(ctx context.Context, quotes []models.Quote) error

	// All returns the cached quotes, newest first.
	All(ctx context.Context) ([]models.Quote, error)
}
