package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"price-intel-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate applies the embedded schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetSKUByID retrieves a SKU by ID
func (s *Store) GetSKUByID(ctx context.Context, id int64) (*models.SKU, error) {
	var sku models.SKU
	err := s.db.GetContext(ctx, &sku, "SELECT * FROM skus WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sku not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

// GetSKUByCode retrieves a SKU by its catalog code
func (s *Store) GetSKUByCode(ctx context.Context, code string) (*models.SKU, error) {
	var sku models.SKU
	err := s.db.GetContext(ctx, &sku, "SELECT * FROM skus WHERE code = $1", code)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sku not found: %s", code)
	}
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

// GetSKUCartons retrieves the carton specifications for a SKU
func (s *Store) GetSKUCartons(ctx context.Context, skuID int64) ([]models.SKUCarton, error) {
	var cartons []models.SKUCarton
	err := s.db.SelectContext(ctx, &cartons,
		"SELECT * FROM sku_cartons WHERE sku_id = $1 ORDER BY carton_units", skuID)
	return cartons, err
}

// GetCompanyByID retrieves a company by ID
func (s *Store) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company
	err := s.db.GetContext(ctx, &company, "SELECT * FROM companies WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("company not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetCompanyByName retrieves a company by exact name
func (s *Store) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	err := s.db.GetContext(ctx, &company, "SELECT * FROM companies WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("company not found: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetLocationByID retrieves a location by ID
func (s *Store) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	err := s.db.GetContext(ctx, &location, "SELECT * FROM locations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("location not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// ListSKUs retrieves all SKUs
func (s *Store) ListSKUs(ctx context.Context) ([]models.SKU, error) {
	var skus []models.SKU
	err := s.db.SelectContext(ctx, &skus, "SELECT * FROM skus ORDER BY id")
	return skus, err
}

// GetLocationByName retrieves a location by name within a company
func (s *Store) GetLocationByName(ctx context.Context, companyID int64, name string) (*models.Location, error) {
	var location models.Location
	err := s.db.GetContext(ctx, &location,
		"SELECT * FROM locations WHERE company_id = $1 AND name = $2", companyID, name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("location not found: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// ListActiveCostRecords retrieves the non-archived cost history for a SKU,
// newest first
func (s *Store) ListActiveCostRecords(ctx context.Context, skuID int64) ([]models.CostRecord, error) {
	var records []models.CostRecord
	err := s.db.SelectContext(ctx, &records,
		"SELECT * FROM cost_records WHERE sku_id = $1 AND archived_at IS NULL ORDER BY effective_at DESC, id DESC",
		skuID)
	return records, err
}

// UpsertCostRecord inserts or updates a cost record keyed by
// (sku, cost type, effective date)
func (s *Store) UpsertCostRecord(ctx context.Context, rec *models.CostRecord) error {
	query := `
		INSERT INTO cost_records (sku_id, cost_type, currency, unit_cost, pack_cost, carton_cost, effective_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sku_id, cost_type, effective_at) DO UPDATE SET
			currency = EXCLUDED.currency,
			unit_cost = EXCLUDED.unit_cost,
			pack_cost = EXCLUDED.pack_cost,
			carton_cost = EXCLUDED.carton_cost,
			archived_at = NULL,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, rec, query,
		rec.SKUID, rec.CostType, rec.Currency,
		rec.UnitCost, rec.PackCost, rec.CartonCost, rec.EffectiveAt)
}

// ArchiveCostRecord soft deletes a cost record
func (s *Store) ArchiveCostRecord(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE cost_records SET archived_at = NOW(), updated_at = NOW() WHERE id = $1 AND archived_at IS NULL",
		id)
	return err
}
