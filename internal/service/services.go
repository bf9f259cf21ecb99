package service

import (
	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/internal/store"
)

// ClientServices bundles every application service the client UI consumes.
type ClientServices struct {
	Auth         AuthService
	Catalog      CatalogService
	Configurator ConfiguratorService
	Quotes       QuoteService
	System       SystemService
	Metrics      MetricsJob
}

// NewClientServices wires all services on top of the API gateway, the shared
// state store and the local cache.
func NewClientServices(gateway Gateway, appState *state.Store, local *store.ClientStorages, log *logger.Logger) *ClientServices {
	system := NewSystemService(gateway, log)

	return &ClientServices{
		Auth:         NewAuthService(gateway, appState, local, log),
		Catalog:      NewCatalogService(gateway, log),
		Configurator: NewConfiguratorService(gateway, appState, local, log),
		Quotes:       NewQuoteService(gateway, appState, local, log),
		System:       system,
		Metrics:      NewMetricsJob(system),
	}
}
