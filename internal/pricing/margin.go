package pricing

import "github.com/shopspring/decimal"

// LevelPrices holds ex-GST prices per packaging level; pack and carton are
// nil where the observation carries no price at that level.
type LevelPrices struct {
	Unit   decimal.Decimal
	Pack   *decimal.Decimal
	Carton *decimal.Decimal
}

// Margin is the gross profit at one packaging level. Both fields are nil
// when either the price or the cost for the level is unavailable, or the
// cost is zero. Pct is a fraction (0.15 = 15%).
type Margin struct {
	Abs *decimal.Decimal
	Pct *decimal.Decimal
}

// Margins holds the gross profit at each packaging level.
type Margins struct {
	Unit   Margin
	Pack   Margin
	Carton Margin
}

func levelMargin(price, cost *decimal.Decimal) Margin {
	if price == nil || cost == nil || cost.IsZero() {
		return Margin{}
	}
	diff := price.Sub(*cost)
	abs := diff.Round(moneyScale)
	pct := diff.Div(*cost).Round(ratioScale)
	return Margin{Abs: &abs, Pct: &pct}
}

// CalcMargins combines ex-GST level prices with resolved level costs into
// absolute and percentage gross profit at each level.
func CalcMargins(prices LevelPrices, costs LevelCosts) Margins {
	unit := prices.Unit
	return Margins{
		Unit:   levelMargin(&unit, costs.Unit),
		Pack:   levelMargin(prices.Pack, costs.Pack),
		Carton: levelMargin(prices.Carton, costs.Carton),
	}
}
