package store

import (
	"context"
	"database/sql"
	"fmt"

	"price-intel-service/internal/models"
	"price-intel-service/internal/pricing"

	"github.com/lib/pq"
)

// InsertObservation stores a fully normalized observation. Derived fields
// are fixed here and never recomputed.
func (s *Store) InsertObservation(ctx context.Context, obs *models.PriceObservation) error {
	query := `
		INSERT INTO price_observations (
			sku_id, company_id, location_id, observed_at, channel, price_context,
			is_carton_price, is_pack_price, carton_units,
			price_ex_gst, price_inc_gst, unit_price, pack_price, carton_price, price_basis,
			price_per_litre, standard_drinks, price_per_std_drink,
			unit_gp_abs, unit_gp_pct, pack_gp_abs, pack_gp_pct, carton_gp_abs, carton_gp_pct,
			hash_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, obs, query,
		obs.SKUID, obs.CompanyID, obs.LocationID, obs.ObservedAt, obs.Channel, obs.PriceContext,
		obs.IsCartonPrice, obs.IsPackPrice, obs.CartonUnits,
		obs.PriceExGST, obs.PriceIncGST, obs.UnitPrice, obs.PackPrice, obs.CartonPrice, obs.PriceBasis,
		obs.PricePerLitre, obs.StandardDrinks, obs.PricePerStdDrink,
		obs.UnitGPAbs, obs.UnitGPPct, obs.PackGPAbs, obs.PackGPPct, obs.CartonGPAbs, obs.CartonGPPct,
		obs.HashKey)
}

// GetObservationByID retrieves an observation by ID
func (s *Store) GetObservationByID(ctx context.Context, id int64) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	err := s.db.GetContext(ctx, &obs, "SELECT * FROM price_observations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("observation not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

// GetActiveObservationByHash retrieves the active observation matching an
// identity hash, or nil when no duplicate exists
func (s *Store) GetActiveObservationByHash(ctx context.Context, hashKey string) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	err := s.db.GetContext(ctx, &obs,
		"SELECT * FROM price_observations WHERE hash_key = $1 AND archived_at IS NULL LIMIT 1",
		hashKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

// ListActiveObservationHashes retrieves the (id, hash) projection of all
// active observations for in-memory duplicate grouping
func (s *Store) ListActiveObservationHashes(ctx context.Context) ([]pricing.HashedObservation, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, hash_key FROM price_observations WHERE archived_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []pricing.HashedObservation
	for rows.Next() {
		var h pricing.HashedObservation
		if err := rows.Scan(&h.ID, &h.Hash); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// ListDuplicateGroups aggregates active observations sharing a hash directly
// in SQL, largest groups first
func (s *Store) ListDuplicateGroups(ctx context.Context) ([]pricing.DuplicateGroup, error) {
	query := `
		SELECT hash_key, array_agg(id ORDER BY id) AS ids, COUNT(*) AS cnt
		FROM price_observations
		WHERE archived_at IS NULL
		GROUP BY hash_key
		HAVING COUNT(*) > 1
		ORDER BY cnt DESC, hash_key`

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []pricing.DuplicateGroup
	for rows.Next() {
		var g pricing.DuplicateGroup
		var ids pq.Int64Array
		if err := rows.Scan(&g.Hash, &ids, &g.Count); err != nil {
			return nil, err
		}
		g.IDs = []int64(ids)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListObservationsBySKU retrieves active observations for a SKU, newest first
func (s *Store) ListObservationsBySKU(ctx context.Context, skuID int64) ([]models.PriceObservation, error) {
	var observations []models.PriceObservation
	err := s.db.SelectContext(ctx, &observations,
		"SELECT * FROM price_observations WHERE sku_id = $1 AND archived_at IS NULL ORDER BY observed_at DESC",
		skuID)
	return observations, err
}

// ArchiveObservation soft deletes an observation
func (s *Store) ArchiveObservation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE price_observations SET archived_at = NOW() WHERE id = $1 AND archived_at IS NULL",
		id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("observation not found or already archived: %d", id)
	}
	return nil
}
