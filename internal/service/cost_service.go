package service

import (
	"context"
	"fmt"
	"time"

	"price-intel-service/internal/broker"
	"price-intel-service/internal/models"
	"price-intel-service/internal/store"
	"price-intel-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CostService handles cost record maintenance
type CostService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCostService creates a new cost service
func NewCostService(store *store.Store, eventPublisher *broker.EventPublisher) *CostService {
	return &CostService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// UpsertCostRequest represents a cost record upsert keyed by
// (sku, cost type, effective date)
type UpsertCostRequest struct {
	CostType    string           `json:"cost_type" binding:"required,oneof=estimated known"`
	Currency    string           `json:"currency,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	PackCost    *decimal.Decimal `json:"pack_cost,omitempty"`
	CartonCost  *decimal.Decimal `json:"carton_cost,omitempty"`
	EffectiveAt time.Time        `json:"effective_at" binding:"required"`
}

// UpsertCost creates or updates a cost record for a SKU. Records are never
// hard-deleted; superseded values update in place under the same key.
func (s *CostService) UpsertCost(ctx context.Context, skuID int64, req *UpsertCostRequest) (*models.CostRecord, error) {
	ctx, span := util.StartSpan(ctx, "CostService.UpsertCost")
	defer span.End()

	if req.UnitCost == nil && req.PackCost == nil && req.CartonCost == nil {
		return nil, fmt.Errorf("cost record requires at least one of unit, pack or carton cost")
	}

	currency := req.Currency
	if currency == "" {
		currency = "AUD"
	}

	rec := &models.CostRecord{
		SKUID:       skuID,
		CostType:    req.CostType,
		Currency:    currency,
		UnitCost:    toNullDecimal(req.UnitCost),
		PackCost:    toNullDecimal(req.PackCost),
		CartonCost:  toNullDecimal(req.CartonCost),
		EffectiveAt: req.EffectiveAt,
	}

	if err := s.store.UpsertCostRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to upsert cost record: %w", err)
	}

	util.CostUpsertsTotal.Inc()
	s.logger.Info("Cost record upserted",
		zap.Int64("cost_record_id", rec.ID),
		zap.Int64("sku_id", skuID),
		zap.String("cost_type", rec.CostType))

	event := &models.CostUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCostUpdated,
			Timestamp: time.Now(),
		},
		CostRecordID: rec.ID,
		SKUID:        skuID,
		CostType:     rec.CostType,
		EffectiveAt:  rec.EffectiveAt.Format("2006-01-02"),
	}
	if err := s.eventPublisher.PublishCostUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish CostUpdated event", zap.Error(err))
	}

	return rec, nil
}

// ArchiveCost soft deletes a cost record
func (s *CostService) ArchiveCost(ctx context.Context, id int64) error {
	return s.store.ArchiveCostRecord(ctx, id)
}
