package service

import (
	"context"
	"fmt"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

type systemService struct {
	gateway Gateway
	logger  *logger.Logger
}

// NewSystemService constructs the [SystemService].
func NewSystemService(gateway Gateway, log *logger.Logger) SystemService {
	return &systemService{gateway: gateway, logger: log}
}

// Health implements [SystemService].
func (s *systemService) Health(ctx context.Context) (models.SystemHealth, error) {
	var health models.SystemHealth
	if err := s.gateway.Get(ctx, "/api/system/health", &health); err != nil {
		return models.SystemHealth{}, fmt.Errorf("system health: %w", err)
	}
	return health, nil
}

// Metrics implements [SystemService].
func (s *systemService) Metrics(ctx context.Context) (models.SystemMetrics, error) {
	var metrics models.SystemMetrics
	if err := s.gateway.Get(ctx, "/api/system/metrics", &metrics); err != nil {
		return models.SystemMetrics{}, fmt.Errorf("system metrics: %w", err)
	}
	return metrics, nil
}
