package service

import (
	"context"
	"fmt"
	"time"

	"price-intel-service/internal/models"
	"price-intel-service/internal/pricing"
	"price-intel-service/internal/redisclient"
	"price-intel-service/internal/store"
	"price-intel-service/internal/util"

	"go.uber.org/zap"
)

const packSizeCacheTTL = time.Hour

// CatalogClient provides read-only lookups against the catalog and cost
// store, decoupling the pricing core from any particular storage shape.
type CatalogClient struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(store *store.Store, redis *redisclient.Client) *CatalogClient {
	return &CatalogClient{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// SKUByID retrieves a SKU by id
func (c *CatalogClient) SKUByID(ctx context.Context, id int64) (*models.SKU, error) {
	return c.store.GetSKUByID(ctx, id)
}

// SKUByCode retrieves a SKU by catalog code
func (c *CatalogClient) SKUByCode(ctx context.Context, code string) (*models.SKU, error) {
	return c.store.GetSKUByCode(ctx, code)
}

// Packaging flattens a SKU into the attributes the calculators need
func (c *CatalogClient) Packaging(sku *models.SKU) pricing.Packaging {
	unitsPerPack := 0
	if sku.UnitsPerPack.Valid {
		unitsPerPack = int(sku.UnitsPerPack.Int64)
	}
	return pricing.Packaging{
		ContainerML:  sku.ContainerML,
		ABVPercent:   sku.ABVPercent,
		UnitsPerPack: unitsPerPack,
	}
}

// PackSizeFor returns a SKU's units-per-pack, or 0 when it has no pack
// assignment. Read-through cached in Redis.
func (c *CatalogClient) PackSizeFor(ctx context.Context, skuID int64) (int, error) {
	if size, found, err := c.redis.GetPackSize(ctx, skuID); err == nil && found {
		return size, nil
	}

	sku, err := c.store.GetSKUByID(ctx, skuID)
	if err != nil {
		return 0, err
	}

	size := 0
	if sku.UnitsPerPack.Valid {
		size = int(sku.UnitsPerPack.Int64)
	}

	if err := c.redis.CachePackSize(ctx, skuID, size, packSizeCacheTTL); err != nil {
		c.logger.Warn("Failed to cache pack size", zap.Int64("sku_id", skuID), zap.Error(err))
	}
	return size, nil
}

// CartonUnitsFor returns the default carton unit count for a SKU: the
// smallest configured carton spec, or 0 when none exist
func (c *CatalogClient) CartonUnitsFor(ctx context.Context, skuID int64) (int, error) {
	cartons, err := c.store.GetSKUCartons(ctx, skuID)
	if err != nil {
		return 0, err
	}
	if len(cartons) == 0 {
		return 0, nil
	}
	return cartons[0].CartonUnits, nil
}

// CostHistoryFor returns the active cost history for a SKU
func (c *CatalogClient) CostHistoryFor(ctx context.Context, skuID int64) ([]models.CostRecord, error) {
	return c.store.ListActiveCostRecords(ctx, skuID)
}

// SyncPackSizesToRedis warms the pack-size cache for all SKUs at startup
func (c *CatalogClient) SyncPackSizesToRedis(ctx context.Context) error {
	skus, err := c.store.ListSKUs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list skus: %w", err)
	}

	for _, sku := range skus {
		size := 0
		if sku.UnitsPerPack.Valid {
			size = int(sku.UnitsPerPack.Int64)
		}
		if err := c.redis.CachePackSize(ctx, sku.ID, size, packSizeCacheTTL); err != nil {
			return fmt.Errorf("failed to cache pack size for sku %d: %w", sku.ID, err)
		}
	}

	c.logger.Info("Pack sizes synced to Redis", zap.Int("skus", len(skus)))
	return nil
}
