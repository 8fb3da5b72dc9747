package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"price-intel-service/internal/models"
)

// CostSelectMode controls how ResolveCost picks among eligible records.
type CostSelectMode int

const (
	// CostPreferKnown picks the highest-ranked record with a known cost type,
	// falling back to the most recent record of any type.
	CostPreferKnown CostSelectMode = iota

	// CostMostRecent picks the most recent record outright, ignoring type.
	CostMostRecent
)

func costTypeRank(costType string) int {
	if costType == models.CostTypeKnown {
		return 1
	}
	return 0
}

// outranksCost defines a total order over cost records: effective date
// descending, then known before estimated, then record id descending so
// ties resolve deterministically.
func outranksCost(a, b models.CostRecord) bool {
	if !a.EffectiveAt.Equal(b.EffectiveAt) {
		return a.EffectiveAt.After(b.EffectiveAt)
	}
	if ra, rb := costTypeRank(a.CostType), costTypeRank(b.CostType); ra != rb {
		return ra > rb
	}
	return a.ID > b.ID
}

// ResolveCost selects the single applicable cost record for margin
// comparison, or nil if no record is eligible. Archived records and records
// effective after asOf (when given) are excluded. Read-only.
func ResolveCost(records []models.CostRecord, asOf *time.Time, mode CostSelectMode) *models.CostRecord {
	eligible := make([]models.CostRecord, 0, len(records))
	for _, r := range records {
		if r.Archived() {
			continue
		}
		if asOf != nil && r.EffectiveAt.After(*asOf) {
			continue
		}
		eligible = append(eligible, r)
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		return outranksCost(eligible[i], eligible[j])
	})

	if mode == CostPreferKnown {
		for i := range eligible {
			if eligible[i].CostType == models.CostTypeKnown {
				return &eligible[i]
			}
		}
	}
	return &eligible[0]
}

// LevelCosts holds per-packaging-level costs after derivation. Absent levels
// stay nil when they cannot be computed from the record and pack structure.
type LevelCosts struct {
	Unit   *decimal.Decimal
	Pack   *decimal.Decimal
	Carton *decimal.Decimal
}

// DeriveLevelCosts fills in missing level costs from the ones present on the
// record: unit from pack, pack from unit, carton from pack or unit. Values
// are kept at full precision; rounding happens in the margin calculation.
func DeriveLevelCosts(rec *models.CostRecord, unitsPerPack, cartonUnits int) LevelCosts {
	var costs LevelCosts
	if rec == nil {
		return costs
	}

	if rec.UnitCost.Valid {
		v := rec.UnitCost.Decimal
		costs.Unit = &v
	}
	if rec.PackCost.Valid {
		v := rec.PackCost.Decimal
		costs.Pack = &v
	}
	if rec.CartonCost.Valid {
		v := rec.CartonCost.Decimal
		costs.Carton = &v
	}

	packSize := decimal.NewFromInt(int64(unitsPerPack))

	if costs.Unit == nil && costs.Pack != nil && unitsPerPack > 0 {
		v := costs.Pack.Div(packSize)
		costs.Unit = &v
	}
	if costs.Pack == nil && costs.Unit != nil && unitsPerPack > 1 {
		v := costs.Unit.Mul(packSize)
		costs.Pack = &v
	}
	if costs.Carton == nil && cartonUnits > 0 {
		units := decimal.NewFromInt(int64(cartonUnits))
		switch {
		case costs.Pack != nil && unitsPerPack > 0:
			v := costs.Pack.Mul(units.Div(packSize))
			costs.Carton = &v
		case costs.Unit != nil:
			v := costs.Unit.Mul(units)
			costs.Carton = &v
		}
	}

	return costs
}
