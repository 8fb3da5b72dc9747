package pricing

import (
	"github.com/shopspring/decimal"

	"price-intel-service/internal/models"
)

// Standard-drink constants: ethanol density in g/mL and the 10 g of pure
// alcohol that makes up one Australian standard drink.
var (
	ethanolDensity   = decimal.NewFromFloat(0.789)
	gramsPerStdDrink = decimal.NewFromInt(10)
	hundred          = decimal.NewFromInt(100)
	thousand         = decimal.NewFromInt(1000)
)

// Packaging carries the SKU attributes the calculators need, decoupled from
// how the catalog stores them.
type Packaging struct {
	ContainerML  int
	ABVPercent   decimal.Decimal
	UnitsPerPack int // 0 when the SKU has no pack assignment
}

func (p Packaging) unitsPerPack() int {
	if p.UnitsPerPack > 0 {
		return p.UnitsPerPack
	}
	return 1
}

// PriceMetrics is the output of the price metrics calculation over the
// normalized inc-GST price.
type PriceMetrics struct {
	UnitPrice        decimal.Decimal
	PackPrice        *decimal.Decimal
	CartonPrice      *decimal.Decimal
	UnitsPerPack     int
	PriceBasis       string
	PricePerLitre    decimal.Decimal
	StandardDrinks   decimal.Decimal
	PricePerStdDrink decimal.Decimal
}

// splitLevels resolves a quoted price into unit/pack/carton prices according
// to the level flags. Pack and carton are nil where not applicable. All three
// are rounded to money scale.
func splitLevels(price decimal.Decimal, cartonUnits, unitsPerPack int, isCarton, isPack bool) (unit decimal.Decimal, pack, carton *decimal.Decimal, err error) {
	switch {
	case isCarton:
		if cartonUnits <= 0 {
			return decimal.Zero, nil, nil, ErrMissingCartonUnits
		}
		unit = price.Div(decimal.NewFromInt(int64(cartonUnits))).Round(moneyScale)
		if unitsPerPack > 1 {
			p := unit.Mul(decimal.NewFromInt(int64(unitsPerPack))).Round(moneyScale)
			pack = &p
		}
		c := price.Round(moneyScale)
		carton = &c
	case isPack && unitsPerPack > 1:
		p := price.Round(moneyScale)
		pack = &p
		unit = price.Div(decimal.NewFromInt(int64(unitsPerPack))).Round(moneyScale)
	default:
		unit = price.Round(moneyScale)
		if unitsPerPack > 1 {
			p := unit.Mul(decimal.NewFromInt(int64(unitsPerPack))).Round(moneyScale)
			pack = &p
		}
	}
	return unit, pack, carton, nil
}

func priceBasis(unitsPerPack int, isCarton, isPack bool) string {
	switch {
	case isCarton:
		return models.PriceBasisCarton
	case isPack && unitsPerPack > 1:
		return models.PriceBasisPack
	default:
		return models.PriceBasisUnit
	}
}

// StandardDrinks computes the standard-drink count for a container, rounded
// to money scale as the reference outputs do.
func StandardDrinks(containerML int, abvPercent decimal.Decimal) decimal.Decimal {
	ml := decimal.NewFromInt(int64(containerML))
	grams := ml.Mul(abvPercent.Div(hundred)).Mul(ethanolDensity)
	return grams.Div(gramsPerStdDrink).Round(moneyScale)
}

// CalcPriceMetrics computes unit/pack/carton inc-GST prices, the resolved
// price basis, and the per-litre and per-standard-drink metrics for a
// normalized inc-GST price quoted at the level the flags describe.
func CalcPriceMetrics(pkg Packaging, priceIncGST decimal.Decimal, cartonUnits int, isCarton, isPack bool) (*PriceMetrics, error) {
	unitsPerPack := pkg.unitsPerPack()

	unit, pack, carton, err := splitLevels(priceIncGST, cartonUnits, unitsPerPack, isCarton, isPack)
	if err != nil {
		return nil, err
	}

	perLitre := decimal.Zero
	if pkg.ContainerML > 0 {
		litres := decimal.NewFromInt(int64(pkg.ContainerML)).Div(thousand)
		perLitre = unit.Div(litres).Round(ratioScale)
	}

	drinks := StandardDrinks(pkg.ContainerML, pkg.ABVPercent)

	perDrink := decimal.Zero
	if !drinks.IsZero() {
		perDrink = unit.Div(drinks).Round(ratioScale)
	}

	return &PriceMetrics{
		UnitPrice:        unit,
		PackPrice:        pack,
		CartonPrice:      carton,
		UnitsPerPack:     unitsPerPack,
		PriceBasis:       priceBasis(unitsPerPack, isCarton, isPack),
		PricePerLitre:    perLitre,
		StandardDrinks:   drinks,
		PricePerStdDrink: perDrink,
	}, nil
}
