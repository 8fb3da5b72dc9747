package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-intel-service/internal/models"
)

func sixPackBottle(t *testing.T) Packaging {
	t.Helper()
	return Packaging{ContainerML: 330, ABVPercent: dec(t, "4.8"), UnitsPerPack: 6}
}

func TestCalcPriceMetricsCartonPrice(t *testing.T) {
	pkg := sixPackBottle(t)

	m, err := CalcPriceMetrics(pkg, dec(t, "330.00"), 6, true, false)
	require.NoError(t, err)

	assertDecimal(t, "55.00", m.UnitPrice)
	require.NotNil(t, m.CartonPrice)
	assertDecimal(t, "330.00", *m.CartonPrice)
	require.NotNil(t, m.PackPrice)
	assertDecimal(t, "330.00", *m.PackPrice) // 55.00 * 6
	assert.Equal(t, models.PriceBasisCarton, m.PriceBasis)
}

func TestCalcPriceMetricsCartonWithoutUnits(t *testing.T) {
	_, err := CalcPriceMetrics(sixPackBottle(t), dec(t, "330.00"), 0, true, false)
	assert.ErrorIs(t, err, ErrMissingCartonUnits)
}

func TestCalcPriceMetricsPackPrice(t *testing.T) {
	pkg := Packaging{ContainerML: 375, ABVPercent: dec(t, "5.0"), UnitsPerPack: 4}

	m, err := CalcPriceMetrics(pkg, dec(t, "40.00"), 0, false, true)
	require.NoError(t, err)

	assertDecimal(t, "10.00", m.UnitPrice)
	require.NotNil(t, m.PackPrice)
	assertDecimal(t, "40.00", *m.PackPrice)
	assert.Nil(t, m.CartonPrice)
	assert.Equal(t, models.PriceBasisPack, m.PriceBasis)
}

func TestCalcPriceMetricsPackFlagWithoutPackAssignment(t *testing.T) {
	// No pack assignment: units per pack falls back to 1 and the quote is
	// treated as unit level.
	pkg := Packaging{ContainerML: 700, ABVPercent: dec(t, "40.0")}

	m, err := CalcPriceMetrics(pkg, dec(t, "55.00"), 0, false, true)
	require.NoError(t, err)

	assertDecimal(t, "55.00", m.UnitPrice)
	assert.Nil(t, m.PackPrice)
	assert.Nil(t, m.CartonPrice)
	assert.Equal(t, 1, m.UnitsPerPack)
	assert.Equal(t, models.PriceBasisUnit, m.PriceBasis)
}

func TestCalcPriceMetricsUnitPriceDefault(t *testing.T) {
	pkg := sixPackBottle(t)

	m, err := CalcPriceMetrics(pkg, dec(t, "5.50"), 0, false, false)
	require.NoError(t, err)

	assertDecimal(t, "5.50", m.UnitPrice)
	require.NotNil(t, m.PackPrice)
	assertDecimal(t, "33.00", *m.PackPrice)
	assert.Nil(t, m.CartonPrice)
	assert.Equal(t, models.PriceBasisUnit, m.PriceBasis)
}

func TestCalcPriceMetricsPricePerLitre(t *testing.T) {
	pkg := Packaging{ContainerML: 700, ABVPercent: dec(t, "40.0")}

	m, err := CalcPriceMetrics(pkg, dec(t, "55.00"), 0, false, false)
	require.NoError(t, err)

	// 55.00 / 0.7 L
	assertDecimal(t, "78.5714", m.PricePerLitre)
}

func TestCalcPriceMetricsZeroContainerVolume(t *testing.T) {
	pkg := Packaging{ContainerML: 0, ABVPercent: dec(t, "40.0")}

	m, err := CalcPriceMetrics(pkg, dec(t, "55.00"), 0, false, false)
	require.NoError(t, err)

	assert.True(t, m.PricePerLitre.IsZero())
	assert.True(t, m.StandardDrinks.IsZero())
	assert.True(t, m.PricePerStdDrink.IsZero())
}

func TestStandardDrinksReferenceValue(t *testing.T) {
	// 700 mL at 40% ABV: 700 * 0.40 * 0.789 / 10 = 22.092 -> 22.09
	drinks := StandardDrinks(700, dec(t, "40.0"))
	assertDecimal(t, "22.09", drinks)
}

func TestStandardDrinksZeroABV(t *testing.T) {
	assert.True(t, StandardDrinks(330, dec(t, "0")).IsZero())
}

func TestCalcPriceMetricsPricePerStandardDrink(t *testing.T) {
	pkg := Packaging{ContainerML: 700, ABVPercent: dec(t, "40.0")}

	m, err := CalcPriceMetrics(pkg, dec(t, "55.00"), 0, false, false)
	require.NoError(t, err)

	// 55.00 / 22.09
	assertDecimal(t, "2.4898", m.PricePerStdDrink)
}
