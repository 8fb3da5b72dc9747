package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"price-intel-service/internal/models"
)

// NormalizeRequest carries everything one normalization call needs, already
// materialized in memory. The caller resolves the SKU and loads its active
// cost history before building the request.
type NormalizeRequest struct {
	Packaging Packaging

	RawExGST  *decimal.Decimal
	RawIncGST *decimal.Decimal
	GSTRate   decimal.Decimal

	IsCartonPrice bool
	IsPackPrice   bool
	CartonUnits   int // required > 0 when IsCartonPrice

	CostHistory []models.CostRecord
	AsOf        *time.Time
	CostMode    CostSelectMode
}

// NormalizedResult is the fully derived record, ready for persistence or a
// pre-insert duplicate check. The identity hash is computed separately once
// the identity fields are assembled.
type NormalizedResult struct {
	PriceExGST  decimal.Decimal
	PriceIncGST decimal.Decimal
	Metrics     PriceMetrics
	Margins     Margins
	Cost        *models.CostRecord // the record margins were computed against, nil if none
}

// Normalize converts one raw price observation into its canonical derived
// form: GST normalization, level split, per-volume metrics, cost resolution
// and margins. A call either fully succeeds or fully fails; nothing is
// partially applied.
func Normalize(req NormalizeRequest) (*NormalizedResult, error) {
	ex, inc, err := NormalizeGST(req.RawExGST, req.RawIncGST, req.GSTRate)
	if err != nil {
		return nil, err
	}

	metrics, err := CalcPriceMetrics(req.Packaging, inc, req.CartonUnits, req.IsCartonPrice, req.IsPackPrice)
	if err != nil {
		return nil, err
	}

	// Margins compare ex-GST prices against cost, split the same way as
	// the inc-GST metrics. The flags were validated above, so no error.
	exUnit, exPack, exCarton, _ := splitLevels(ex, req.CartonUnits, metrics.UnitsPerPack, req.IsCartonPrice, req.IsPackPrice)

	cost := ResolveCost(req.CostHistory, req.AsOf, req.CostMode)
	costs := DeriveLevelCosts(cost, metrics.UnitsPerPack, req.CartonUnits)
	margins := CalcMargins(LevelPrices{Unit: exUnit, Pack: exPack, Carton: exCarton}, costs)

	return &NormalizedResult{
		PriceExGST:  ex,
		PriceIncGST: inc,
		Metrics:     *metrics,
		Margins:     margins,
		Cost:        cost,
	}, nil
}
