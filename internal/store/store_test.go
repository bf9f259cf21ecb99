package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkyweld/sparky-client/internal/config"
	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

func newTestStorages(t *testing.T) *ClientStorages {
	t.Helper()

	cfg := config.ClientStorage{
		DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "cache.db")},
	}
	storages, err := NewClientStorages(cfg, logger.Nop())
	require.NoError(t, err)
	return storages
}

// ── NewClientStorages ────────────────────────────────────────────────────────

func TestNewClientStorages_CreatesFileAndSchema(t *testing.T) {
	storages := newTestStorages(t)

	require.NotNil(t, storages.Sessions)
	require.NotNil(t, storages.Quotes)

	// A fresh cache is queryable straight away.
	_, err := storages.Sessions.Load(context.Background())
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)

	quotes, err := storages.Quotes.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

// ── SessionRepository ────────────────────────────────────────────────────────

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	storages := newTestStorages(t)
	ctx := context.Background()

	saved := LocalSession{
		SessionID: "sess-1",
		Tokens: models.TokenPair{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		},
	}
	require.NoError(t, storages.Sessions.Save(ctx, saved))

	loaded, err := storages.Sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", loaded.SessionID)
	assert.Equal(t, "access-1", loaded.Tokens.AccessToken)
	assert.Equal(t, "refresh-1", loaded.Tokens.RefreshToken)
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestSessionRepository_SaveOverwrites(t *testing.T) {
	storages := newTestStorages(t)
	ctx := context.Background()

	require.NoError(t, storages.Sessions.Save(ctx, LocalSession{
		SessionID: "sess-old",
		Tokens:    models.TokenPair{AccessToken: "old"},
	}))
	require.NoError(t, storages.Sessions.Save(ctx, LocalSession{
		SessionID: "sess-new",
		Tokens:    models.TokenPair{AccessToken: "new", RefreshToken: "new-refresh"},
	}))

	loaded, err := storages.Sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-new", loaded.SessionID)
	assert.Equal(t, "new", loaded.Tokens.AccessToken)
	assert.Equal(t, "new-refresh", loaded.Tokens.RefreshToken)
}

func TestSessionRepository_SaveWithoutSessionID(t *testing.T) {
	// Credentials may be persisted before any conversation exists.
	storages := newTestStorages(t)
	ctx := context.Background()

	require.NoError(t, storages.Sessions.Save(ctx, LocalSession{
		Tokens: models.TokenPair{AccessToken: "access-only"},
	}))

	loaded, err := storages.Sessions.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.SessionID)
	assert.Equal(t, "access-only", loaded.Tokens.AccessToken)
}

func TestSessionRepository_Clear(t *testing.T) {
	storages := newTestStorages(t)
	ctx := context.Background()

	require.NoError(t, storages.Sessions.Save(ctx, LocalSession{SessionID: "sess-1"}))
	require.NoError(t, storages.Sessions.Clear(ctx))

	_, err := storages.Sessions.Load(ctx)
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)
}

func TestSessionRepository_ClearEmpty(t *testing.T) {
	storages := newTestStorages(t)

	assert.NoError(t, storages.Sessions.Clear(context.Background()))
}

// ── QuoteCacheRepository ─────────────────────────────────────────────────────

func testQuote(id int64, number string, createdAt time.Time) models.Quote {
	return models.Quote{
		ID:           id,
		Number:       number,
		SessionID:    "sess-1",
		CustomerName: "Acme Fabrication",
		Status:       models.QuoteDraft,
		Lines: []models.QuoteLine{
			{ProductID: 10, SKU: "MIG-200", Description: "MIG welder 200A", Quantity: 1, UnitCents: 129900},
			{ProductID: 22, SKU: "WIRE-08", Description: "Wire spool 0.8mm", Quantity: 4, UnitCents: 2450},
		},
		TotalCents: 139700,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestQuoteCacheRepository_ReplaceAndAll(t *testing.T) {
	storages := newTestStorages(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := testQuote(1, "Q-2026-0001", base)
	newer := testQuote(2, "Q-2026-0002", base.Add(time.Hour))

	require.NoError(t, storages.Quotes.Replace(ctx, []models.Quote{older, newer}))

	quotes, err := storages.Quotes.All(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	// Newest first.
	assert.Equal(t, "Q-2026-0002", quotes[0].Number)
	assert.Equal(t, "Q-2026-0001", quotes[1].Number)

	// Lines survive the round trip.
	require.Len(t, quotes[1].Lines, 2)
	assert.Equal(t, "MIG-200", quotes[1].Lines[0].SKU)
	assert.Equal(t, 4, quotes[1].Lines[1].Quantity)
	assert.Equal(t, int64(139700), quotes[1].TotalCents)
	assert.Equal(t, models.QuoteDraft, quotes[1].Status)
}

func TestQuoteCacheRepository_ReplaceSwapsWholeSet(t *testing.T) {
	storages := newTestStorages(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, storages.Quotes.Replace(ctx, []models.Quote{
		testQuote(1, "Q-2026-0001", base),
		testQuote(2, "Q-2026-0002", base),
	}))
	require.NoError(t, storages.Quotes.Replace(ctx, []models.Quote{
		testQuote(3, "Q-2026-0003", base),
	}))

	quotes, err := storages.Quotes.All(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Q-2026-0003", quotes[0].Number)
}

func TestQuoteCacheRepository_ReplaceWithEmptyClears(t *testing.T) {
	storages := newTestStorages(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, storages.Quotes.Replace(ctx, []models.Quote{
		testQuote(1, "Q-2026-0001", base),
	}))
	require.NoError(t, storages.Quotes.Replace(ctx, nil))

	quotes, err := storages.Quotes.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
