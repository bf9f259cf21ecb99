package service

import (
	"context"
	"fmt"

	"github.com/sparkyweld/sparky-client/internal/api"
	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/models"
)

type catalogService struct {
	gateway Gateway
	logger  *logger.Logger
}

// NewCatalogService constructs the [CatalogService].
func NewCatalogService(gateway Gateway, log *logger.Logger) CatalogService {
	return &catalogService{gateway: gateway, logger: log}
}

// ListProducts implements [CatalogService].
func (c *catalogService) ListProducts(ctx context.Context, category models.ProductCategory) ([]models.Product, error) {
	var products []models.Product

	opts := []api.RequestOption{}
	if category != "" {
		opts = append(opts, api.WithQuery("category", string(category)))
	}

	if err := c.gateway.Get(ctx, "/api/products", &products, opts...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct implements [CatalogService].
func (c *catalogService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var product models.Product
	if err := c.gateway.Get(ctx, fmt.Sprintf("/api/products/%d", id), &product); err != nil {
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

// Availability implements [CatalogService].
func (c *catalogService) Availability(ctx context.Context, productID int64) ([]models.InventoryStatus, error) {
	var statuses []models.InventoryStatus
	if err := c.gateway.Get(ctx, fmt.Sprintf("/api/inventory/%d", productID), &statuses); err != nil {
		return nil, fmt.Errorf("inventory for product %d: %w", productID, err)
	}
	return statuses, nil
}
