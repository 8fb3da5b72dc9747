package pricing

import "github.com/shopspring/decimal"

// Scales applied to computed values. Money is stored at 2 decimal places,
// ratios and per-volume metrics at 4.
const (
	moneyScale = 2
	ratioScale = 4
)

var one = decimal.NewFromInt(1)

// NormalizeGST derives the (ex-GST, inc-GST) pair from whichever amount the
// caller supplied, given a GST rate expressed as a fraction (0.10 for 10%).
// When both amounts are present they are trusted verbatim and only rounded;
// no consistency check against the rate is performed.
func NormalizeGST(exGST, incGST *decimal.Decimal, rate decimal.Decimal) (ex, inc decimal.Decimal, err error) {
	if exGST == nil && incGST == nil {
		return decimal.Zero, decimal.Zero, ErrMissingPrice
	}

	mult := one.Add(rate)

	switch {
	case exGST == nil:
		inc = *incGST
		ex = inc.Div(mult)
	case incGST == nil:
		ex = *exGST
		inc = ex.Mul(mult)
	default:
		ex = *exGST
		inc = *incGST
	}

	return ex.Round(moneyScale), inc.Round(moneyScale), nil
}
