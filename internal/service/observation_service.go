package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"price-intel-service/internal/broker"
	"price-intel-service/internal/models"
	"price-intel-service/internal/pricing"
	"price-intel-service/internal/redisclient"
	"price-intel-service/internal/store"
	"price-intel-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ObservationService handles observation normalization and recording
type ObservationService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	catalog        *CatalogClient
	logger         *zap.Logger
	defaultGSTRate decimal.Decimal
	hashCacheTTL   time.Duration
}

// NewObservationService creates a new observation service
func NewObservationService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	catalog *CatalogClient,
	defaultGSTRate decimal.Decimal,
	hashCacheTTL time.Duration,
) *ObservationService {
	return &ObservationService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		catalog:        catalog,
		logger:         util.GetLogger(),
		defaultGSTRate: defaultGSTRate,
		hashCacheTTL:   hashCacheTTL,
	}
}

// RecordObservationRequest represents a request to record one price
// observation. At least one of the two prices is required.
type RecordObservationRequest struct {
	SKUID        int64     `json:"sku_id" binding:"required"`
	CompanyID    int64     `json:"company_id" binding:"required"`
	LocationID   *int64    `json:"location_id,omitempty"`
	ObservedAt   time.Time `json:"observed_at" binding:"required"`
	Channel      string    `json:"channel" binding:"required"`
	PriceContext string    `json:"price_context" binding:"required"`

	PriceExGST  *decimal.Decimal `json:"price_ex_gst,omitempty"`
	PriceIncGST *decimal.Decimal `json:"price_inc_gst,omitempty"`
	GSTRate     *decimal.Decimal `json:"gst_rate,omitempty"` // service default when absent

	IsCartonPrice bool `json:"is_carton_price"`
	IsPackPrice   bool `json:"is_pack_price"`
	CartonUnits   *int `json:"carton_units,omitempty"`

	MostRecentCostOnly bool `json:"most_recent_cost_only,omitempty"`
}

// RecordObservationResponse represents the outcome of recording an
// observation. Duplicate is a normal, expected outcome, not a failure.
type RecordObservationResponse struct {
	ObservationID int64  `json:"observation_id"`
	HashKey       string `json:"hash_key"`
	Duplicate     bool   `json:"duplicate"`
}

// RecordObservation normalizes one raw observation, checks its identity hash
// against existing records, and stores it unless a duplicate already exists.
func (s *ObservationService) RecordObservation(ctx context.Context, req *RecordObservationRequest) (*RecordObservationResponse, error) {
	ctx, span := util.StartSpan(ctx, "ObservationService.RecordObservation")
	defer span.End()

	start := time.Now()
	defer func() {
		util.NormalizeLatency.Observe(time.Since(start).Seconds())
	}()

	sku, err := s.catalog.SKUByID(ctx, req.SKUID)
	if err != nil {
		util.ObservationsFailedTotal.WithLabelValues("sku_lookup").Inc()
		return nil, err
	}

	costs, err := s.catalog.CostHistoryFor(ctx, req.SKUID)
	if err != nil {
		util.ObservationsFailedTotal.WithLabelValues("cost_lookup").Inc()
		return nil, fmt.Errorf("failed to load cost history: %w", err)
	}

	// Carton quotes without an explicit unit count fall back to the SKU's
	// configured carton spec.
	if req.IsCartonPrice && (req.CartonUnits == nil || *req.CartonUnits <= 0) {
		if units, err := s.catalog.CartonUnitsFor(ctx, req.SKUID); err == nil && units > 0 {
			req.CartonUnits = &units
		}
	}

	if req.IsPackPrice {
		if size, err := s.catalog.PackSizeFor(ctx, req.SKUID); err == nil && size <= 1 {
			// The calculator treats this as a unit quote; entry surfaces
			// should have validated the pack assignment first.
			s.logger.Warn("Pack price for SKU without pack assignment",
				zap.Int64("sku_id", req.SKUID))
		}
	}

	result, hash, err := s.normalize(sku, req, costs)
	if err != nil {
		util.ObservationsFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if resp, err := s.checkDuplicate(ctx, req, hash); err != nil {
		return nil, err
	} else if resp != nil {
		return resp, nil
	}

	obs := s.buildObservation(req, result, hash)
	if err := s.store.InsertObservation(ctx, obs); err != nil {
		// Release the cache claim so a retry is not shadowed by it.
		_ = s.redis.ForgetHash(ctx, hash)
		util.ObservationsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to insert observation: %w", err)
	}

	if err := s.redis.MarkHash(ctx, hash, obs.ID, s.hashCacheTTL); err != nil {
		s.logger.Warn("Failed to cache observation hash", zap.Error(err))
	}

	util.ObservationsRecordedTotal.Inc()
	s.logger.Info("Observation recorded",
		zap.Int64("observation_id", obs.ID),
		zap.Int64("sku_id", obs.SKUID),
		zap.String("price_basis", obs.PriceBasis))

	event := &models.ObservationRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeObservationRecorded,
			Timestamp: time.Now(),
		},
		ObservationID: obs.ID,
		SKUID:         obs.SKUID,
		CompanyID:     obs.CompanyID,
		HashKey:       obs.HashKey,
		PriceIncGST:   obs.PriceIncGST.StringFixed(2),
		PriceBasis:    obs.PriceBasis,
	}
	if err := s.eventPublisher.PublishObservationRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ObservationRecorded event", zap.Error(err))
	}

	return &RecordObservationResponse{
		ObservationID: obs.ID,
		HashKey:       obs.HashKey,
	}, nil
}

// normalize runs the pricing core over the request and computes the
// identity hash from the normalized inc-GST price.
func (s *ObservationService) normalize(sku *models.SKU, req *RecordObservationRequest, costs []models.CostRecord) (*pricing.NormalizedResult, string, error) {
	gstRate := s.defaultGSTRate
	if req.GSTRate != nil {
		gstRate = *req.GSTRate
	}

	cartonUnits := 0
	if req.CartonUnits != nil {
		cartonUnits = *req.CartonUnits
	}

	costMode := pricing.CostPreferKnown
	if req.MostRecentCostOnly {
		costMode = pricing.CostMostRecent
	}

	asOf := req.ObservedAt
	result, err := pricing.Normalize(pricing.NormalizeRequest{
		Packaging:     s.catalog.Packaging(sku),
		RawExGST:      req.PriceExGST,
		RawIncGST:     req.PriceIncGST,
		GSTRate:       gstRate,
		IsCartonPrice: req.IsCartonPrice,
		IsPackPrice:   req.IsPackPrice,
		CartonUnits:   cartonUnits,
		CostHistory:   costs,
		AsOf:          &asOf,
		CostMode:      costMode,
	})
	if err != nil {
		return nil, "", err
	}

	hash := pricing.ObservationHash(pricing.HashInput{
		SKUID:        req.SKUID,
		CompanyID:    req.CompanyID,
		LocationID:   req.LocationID,
		ObservedAt:   req.ObservedAt,
		Channel:      req.Channel,
		PriceIncGST:  result.PriceIncGST,
		IsCarton:     req.IsCartonPrice,
		CartonUnits:  cartonUnits,
		PriceContext: req.PriceContext,
	})

	return result, hash, nil
}

// checkDuplicate runs the point-in-time duplicate check: a best-effort Redis
// claim first, then the authoritative store lookup. Returns a non-nil
// response when the observation already exists.
func (s *ObservationService) checkDuplicate(ctx context.Context, req *RecordObservationRequest, hash string) (*RecordObservationResponse, error) {
	claimed, err := s.redis.ClaimHash(ctx, hash, 0, s.hashCacheTTL)
	if err != nil {
		s.logger.Warn("Hash cache unavailable, falling back to store lookup", zap.Error(err))
		claimed = true
	} else {
		result := "miss"
		if !claimed {
			result = "hit"
		}
		util.DuplicateCacheHitsTotal.WithLabelValues(result).Inc()
	}

	existing, err := s.store.GetActiveObservationByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if existing == nil && claimed {
		return nil, nil
	}
	if existing == nil {
		// Cache claim lost but nothing stored yet: a concurrent writer
		// holds the claim. Treat as duplicate; the unique index settles
		// the race for callers that need exactly-once.
		util.ObservationsDuplicateTotal.Inc()
		return &RecordObservationResponse{HashKey: hash, Duplicate: true}, nil
	}

	util.ObservationsDuplicateTotal.Inc()
	s.logger.Info("Duplicate observation detected",
		zap.String("hash_key", hash),
		zap.Int64("existing_id", existing.ID))

	event := &models.ObservationDuplicateEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeObservationDuplicate,
			Timestamp: time.Now(),
		},
		SKUID:      req.SKUID,
		CompanyID:  req.CompanyID,
		HashKey:    hash,
		ExistingID: existing.ID,
	}
	if err := s.eventPublisher.PublishObservationDuplicate(ctx, event); err != nil {
		s.logger.Error("Failed to publish ObservationDuplicate event", zap.Error(err))
	}

	return &RecordObservationResponse{
		ObservationID: existing.ID,
		HashKey:       hash,
		Duplicate:     true,
	}, nil
}

// buildObservation assembles the persistable row from the request and the
// normalization result. Derived fields are fixed here.
func (s *ObservationService) buildObservation(req *RecordObservationRequest, result *pricing.NormalizedResult, hash string) *models.PriceObservation {
	obs := &models.PriceObservation{
		SKUID:         req.SKUID,
		CompanyID:     req.CompanyID,
		ObservedAt:    req.ObservedAt,
		Channel:       req.Channel,
		PriceContext:  req.PriceContext,
		IsCartonPrice: req.IsCartonPrice,
		IsPackPrice:   req.IsPackPrice,

		PriceExGST:  result.PriceExGST,
		PriceIncGST: result.PriceIncGST,
		UnitPrice:   result.Metrics.UnitPrice,
		PackPrice:   toNullDecimal(result.Metrics.PackPrice),
		CartonPrice: toNullDecimal(result.Metrics.CartonPrice),
		PriceBasis:  result.Metrics.PriceBasis,

		PricePerLitre:    result.Metrics.PricePerLitre,
		StandardDrinks:   result.Metrics.StandardDrinks,
		PricePerStdDrink: result.Metrics.PricePerStdDrink,

		UnitGPAbs:   toNullDecimal(result.Margins.Unit.Abs),
		UnitGPPct:   toNullDecimal(result.Margins.Unit.Pct),
		PackGPAbs:   toNullDecimal(result.Margins.Pack.Abs),
		PackGPPct:   toNullDecimal(result.Margins.Pack.Pct),
		CartonGPAbs: toNullDecimal(result.Margins.Carton.Abs),
		CartonGPPct: toNullDecimal(result.Margins.Carton.Pct),

		HashKey: hash,
	}

	if req.LocationID != nil {
		obs.LocationID = sql.NullInt64{Int64: *req.LocationID, Valid: true}
	}
	if req.IsCartonPrice && req.CartonUnits != nil {
		obs.CartonUnits = sql.NullInt64{Int64: int64(*req.CartonUnits), Valid: true}
	}

	return obs
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// GetObservation retrieves an observation by ID
func (s *ObservationService) GetObservation(ctx context.Context, id int64) (*models.PriceObservation, error) {
	return s.store.GetObservationByID(ctx, id)
}

// ArchiveObservation soft deletes an observation and releases its hash from
// the duplicate cache so the quote can be re-entered.
func (s *ObservationService) ArchiveObservation(ctx context.Context, id int64) error {
	obs, err := s.store.GetObservationByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.ArchiveObservation(ctx, id); err != nil {
		return err
	}

	if err := s.redis.ForgetHash(ctx, obs.HashKey); err != nil {
		s.logger.Warn("Failed to evict archived hash", zap.Error(err))
	}

	util.ObservationsArchivedTotal.Inc()

	event := &models.ObservationArchivedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeObservationArchived,
			Timestamp: time.Now(),
		},
		ObservationID: id,
		HashKey:       obs.HashKey,
	}
	if err := s.eventPublisher.PublishObservationArchived(ctx, event); err != nil {
		s.logger.Error("Failed to publish ObservationArchived event", zap.Error(err))
	}

	return nil
}

// DuplicateGroups lists the active observations sharing an identity hash,
// largest groups first
func (s *ObservationService) DuplicateGroups(ctx context.Context) ([]pricing.DuplicateGroup, error) {
	return s.store.ListDuplicateGroups(ctx)
}
