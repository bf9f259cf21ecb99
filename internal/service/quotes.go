package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sparkyweld/sparky-client/internal/api"
	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/internal/store"
	"github.com/sparkyweld/sparky-client/models"
)

type quoteService struct {
	gateway  Gateway
	appState *state.Store
	local    *store.ClientStorages
	logger   *logger.Logger
}

// NewQuoteService constructs the [QuoteService].
func NewQuoteService(gateway Gateway, appState *state.Store, local *store.ClientStorages, log *logger.Logger) QuoteService {
	return &quoteService{gateway: gateway, appState: appState, local: local, logger: log}
}

// List implements [QuoteService]. A successful fetch refreshes the local
// cache; a transport failure falls back to it so the quotes screen keeps
// working offline.
func (q *quoteService) List(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := q.gateway.Get(ctx, "/api/quotes", &quotes)
	if err != nil {
		if errors.Is(err, api.ErrNetwork) {
			cached, cacheErr := q.local.Quotes.All(ctx)
			if cacheErr == nil && len(cached) > 0 {
				q.logger.Info().Int("count", len(cached)).Msg("serving quotes from local cache")
				return cached, nil
			}
		}
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	if cacheErr := q.local.Quotes.Replace(ctx, quotes); cacheErr != nil {
		q.logger.Warn().Err(cacheErr).Msg("refresh quote cache failed")
	}

	return quotes, nil
}

// Get implements [QuoteService].
func (q *quoteService) Get(ctx context.Context, id int64) (models.Quote, error) {
	var quote models.Quote
	if err := q.gateway.Get(ctx, fmt.Sprintf("/api/quotes/%d", id), &quote); err != nil {
		return models.Quote{}, fmt.Errorf("get quote %d: %w", id, err)
	}
	return quote, nil
}

// CreateFromSession implements [QuoteService].
func (q *quoteService) CreateFromSession(ctx context.Context, customerName string) (models.Quote, error) {
	sessionID := q.appState.SessionID()
	if sessionID == "" {
		return models.Quote{}, ErrNoActiveSession
	}

	var quote models.Quote
	req := models.CreateQuoteRequest{SessionID: sessionID, CustomerName: customerName}
	if err := q.gateway.Post(ctx, "/api/quotes", req, &quote); err != nil {
		return models.Quote{}, fmt.Errorf("create quote: %w", err)
	}

	q.logger.Info().Str("number", quote.Number).Msg("quote created")
	return quote, nil
}

// Accept implements [QuoteService].
func (q *quoteService) Accept(ctx context.Context, id int64) (models.Quote, error) {
	var quote models.Quote
	if err := q.gateway.Post(ctx, fmt.Sprintf("/api/quotes/%d/accept", id), nil, &quote); err != nil {
		return models.Quote{}, fmt.Errorf("accept quote %d: %w", id, err)
	}
	return quote, nil
}

// Export implements [QuoteService].
func (q *quoteService) Export(ctx context.Context, id int64, filename string) error {
	if err := q.gateway.Download(ctx, fmt.Sprintf("/api/quotes/%d/export", id), filename); err != nil {
		return fmt.Errorf("export quote %d: %w", id, err)
	}
	return nil
}
