// Package service implements the application services of the Sparky client:
// authentication, catalog browsing, the configurator conversation, quote
// management, and system health. Services translate UI intents into API
// calls and keep the shared state store and local cache in step.
package service

import (
	"context"
	"time"

	"github.com/sparkyweld/sparky-client/internal/api"
	"github.com/sparkyweld/sparky-client/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Gateway is the slice of the API client the services depend on. Narrowing
// the dependency keeps services testable without HTTP.
type Gateway interface {
	Get(ctx context.Context, path string, out any, opts ...api.RequestOption) error
	Post(ctx context.Context, path string, body, out any, opts ...api.RequestOption) error
	Put(ctx context.Context, path string, body, out any, opts ...api.RequestOption) error
	Patch(ctx context.Context, path string, body, out any, opts ...api.RequestOption) error
	Delete(ctx context.Context, path string, body any, opts ...api.RequestOption) error
	Download(ctx context.Context, path, filename string, opts ...api.RequestOption) error
}

// AuthService owns credentials: login, logout, and restoring a persisted
// session at startup.
type AuthService interface {
	// Login exchanges credentials for a token pair, stores it in the state
	// store, and persists it locally. Returns the authenticated user.
	Login(ctx context.Context, login, password string) (models.User, error)

	// Logout tells the backend to revoke the refresh token (best effort),
	// clears stored credentials, and wipes the persisted session.
	Logout(ctx context.Context) error

	// RestoreSession loads the persisted session from the local cache into
	// the state store. Returns false (and no error) when nothing usable is
	// persisted.
	RestoreSession(ctx context.Context) (bool, error)
}

// CatalogService reads the product catalog and inventory.
type CatalogService interface {
	// ListProducts returns catalog entries, optionally filtered by category
	// (empty string means all).
	ListProducts(ctx context.Context, category models.ProductCategory) ([]models.Product, error)

	// GetProduct returns a single catalog entry.
	GetProduct(ctx context.Context, id int64) (models.Product, error)

	// Availability returns per-warehouse inventory for a product.
	Availability(ctx context.Context, productID int64) ([]models.InventoryStatus, error)
}

// ConfiguratorService drives the chat-style configurator conversation.
type ConfiguratorService interface {
	// StartConversation opens a new orchestrator workflow, records the
	// issued session in the state store, and persists it locally.
	StartConversation(ctx context.Context) (models.Session, error)

	// SendMessage posts one user turn to the Sparky chat endpoint. The
	// assistant's reply arrives over the realtime channel, not in the
	// response.
	SendMessage(ctx context.Context, content string) (models.ChatMessage, error)

	// Recommendations fetches the current recommendation set of the active
	// session.
	Recommendations(ctx context.Context) ([]models.Recommendation, error)

	// Reset clears the active session, locally and in the state store.
	Reset(ctx context.Context) error
}

// QuoteService manages quotes produced by configurator conversations.
type QuoteService interface {
	// List returns all quotes, refreshing the local cache on success and
	// falling back to it when the backend is unreachable.
	List(ctx context.Context) ([]models.Quote, error)

	// Get returns one quote by id.
	Get(ctx context.Context, id int64) (models.Quote, error)

	// CreateFromSession prices the active session's recommendations into a
	// draft quote.
	CreateFromSession(ctx context.Context, customerName string) (models.Quote, error)

	// Accept transitions a quote to accepted.
	Accept(ctx context.Context, id int64) (models.Quote, error)

	// Export downloads the rendered quote document to filename (empty means
	// a name derived from the quote number).
	Export(ctx context.Context, id int64, filename string) error
}

// SystemService reads backend health and dashboard metrics.
type SystemService interface {
	Health(ctx context.Context) (models.SystemHealth, error)
	Metrics(ctx context.Context) (models.SystemMetrics, error)
}

// MetricsJob polls system metrics in the background for the dashboard.
type MetricsJob interface {
	// Start launches the poll loop. Stops any previously running loop first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the loop and waits for it to exit. Safe when not running.
	Stop()

	// Latest returns the most recent successful poll result, and false when
	// no poll has succeeded yet.
	Latest() (models.SystemMetrics, bool)
}
