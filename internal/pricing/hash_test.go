package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseHashInput(t *testing.T) HashInput {
	t.Helper()
	return HashInput{
		SKUID:        42,
		CompanyID:    7,
		ObservedAt:   time.Date(2026, 8, 14, 15, 4, 5, 0, time.UTC),
		Channel:      "in_store",
		PriceIncGST:  dec(t, "55.00"),
		IsCarton:     false,
		PriceContext: "shelf",
	}
}

func TestObservationHashIdempotent(t *testing.T) {
	in := baseHashInput(t)
	first := ObservationHash(in)
	second := ObservationHash(in)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40) // sha1 hex
}

func TestObservationHashIgnoresTimeOfDay(t *testing.T) {
	morning := baseHashInput(t)
	morning.ObservedAt = time.Date(2026, 8, 14, 8, 0, 0, 0, time.UTC)

	evening := baseHashInput(t)
	evening.ObservedAt = time.Date(2026, 8, 14, 21, 30, 0, 0, time.UTC)

	assert.Equal(t, ObservationHash(morning), ObservationHash(evening))
}

func TestObservationHashSensitiveToEachField(t *testing.T) {
	base := ObservationHash(baseHashInput(t))

	mutations := map[string]func(*HashInput){
		"sku":         func(in *HashInput) { in.SKUID = 43 },
		"company":     func(in *HashInput) { in.CompanyID = 8 },
		"location":    func(in *HashInput) { loc := int64(3); in.LocationID = &loc },
		"date":        func(in *HashInput) { in.ObservedAt = in.ObservedAt.AddDate(0, 0, 1) },
		"channel":     func(in *HashInput) { in.Channel = "online" },
		"price":       func(in *HashInput) { in.PriceIncGST = in.PriceIncGST.Add(dec(t, "0.01")) },
		"carton flag": func(in *HashInput) { in.IsCarton = true; in.CartonUnits = 6 },
		"context":     func(in *HashInput) { in.PriceContext = "promo" },
	}

	for name, mutate := range mutations {
		in := baseHashInput(t)
		mutate(&in)
		assert.NotEqual(t, base, ObservationHash(in), "mutating %s should change the hash", name)
	}
}

func TestObservationHashPriceFormatting(t *testing.T) {
	// 55 and 55.00 are the same price and must hash identically.
	a := baseHashInput(t)
	a.PriceIncGST = dec(t, "55")

	b := baseHashInput(t)
	b.PriceIncGST = dec(t, "55.00")

	assert.Equal(t, ObservationHash(a), ObservationHash(b))
}

func TestObservationHashCartonUnitsZeroWhenNotCarton(t *testing.T) {
	// Stray carton units on a non-carton observation must not leak into
	// the hash.
	a := baseHashInput(t)
	a.CartonUnits = 6

	b := baseHashInput(t)
	b.CartonUnits = 0

	assert.Equal(t, ObservationHash(a), ObservationHash(b))
}

func TestObservationHashKnownValue(t *testing.T) {
	// Pins the canonical string layout:
	// "42|7||2026-08-14|in_store|55.00|0|0|shelf"
	got := ObservationHash(baseHashInput(t))
	require.Equal(t, "4b545b1d085feea3ac62813fbd78f143d462bf5e", got)
}
