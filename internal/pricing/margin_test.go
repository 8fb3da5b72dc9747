package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcMarginsAllLevels(t *testing.T) {
	pack := dec(t, "200.00")
	carton := dec(t, "300.00")
	prices := LevelPrices{Unit: dec(t, "50.00"), Pack: &pack, Carton: &carton}

	unitCost := dec(t, "40.00")
	packCost := dec(t, "160.00")
	cartonCost := dec(t, "240.00")
	costs := LevelCosts{Unit: &unitCost, Pack: &packCost, Carton: &cartonCost}

	m := CalcMargins(prices, costs)

	require.NotNil(t, m.Unit.Abs)
	assertDecimal(t, "10.00", *m.Unit.Abs)
	assertDecimal(t, "0.25", *m.Unit.Pct)

	require.NotNil(t, m.Pack.Abs)
	assertDecimal(t, "40.00", *m.Pack.Abs)
	assertDecimal(t, "0.25", *m.Pack.Pct)

	require.NotNil(t, m.Carton.Abs)
	assertDecimal(t, "60.00", *m.Carton.Abs)
	assertDecimal(t, "0.25", *m.Carton.Pct)
}

func TestCalcMarginsMissingCost(t *testing.T) {
	prices := LevelPrices{Unit: dec(t, "50.00")}

	m := CalcMargins(prices, LevelCosts{})

	assert.Nil(t, m.Unit.Abs)
	assert.Nil(t, m.Unit.Pct)
	assert.Nil(t, m.Pack.Abs)
	assert.Nil(t, m.Carton.Abs)
}

func TestCalcMarginsMissingLevelPrice(t *testing.T) {
	unitCost := dec(t, "40.00")
	packCost := dec(t, "160.00")
	costs := LevelCosts{Unit: &unitCost, Pack: &packCost}

	m := CalcMargins(LevelPrices{Unit: dec(t, "50.00")}, costs)

	require.NotNil(t, m.Unit.Abs)
	assert.Nil(t, m.Pack.Abs)
	assert.Nil(t, m.Pack.Pct)
}

func TestCalcMarginsZeroCost(t *testing.T) {
	zero := decimal.Zero
	m := CalcMargins(LevelPrices{Unit: dec(t, "50.00")}, LevelCosts{Unit: &zero})

	assert.Nil(t, m.Unit.Abs)
	assert.Nil(t, m.Unit.Pct)
}

func TestCalcMarginsNegativeMargin(t *testing.T) {
	unitCost := dec(t, "60.00")
	m := CalcMargins(LevelPrices{Unit: dec(t, "50.00")}, LevelCosts{Unit: &unitCost})

	require.NotNil(t, m.Unit.Abs)
	assertDecimal(t, "-10.00", *m.Unit.Abs)
	// stored as a fraction: -10 / 60
	assertDecimal(t, "-0.1667", *m.Unit.Pct)
}

func TestCalcMarginsPctRoundedToFourPlaces(t *testing.T) {
	unitCost := dec(t, "30.00")
	m := CalcMargins(LevelPrices{Unit: dec(t, "40.00")}, LevelCosts{Unit: &unitCost})

	require.NotNil(t, m.Unit.Pct)
	assertDecimal(t, "0.3333", *m.Unit.Pct)
}
