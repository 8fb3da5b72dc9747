package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(t, want)), "got %s, want %s", got, want)
}

func TestNormalizeGSTFromIncOnly(t *testing.T) {
	ex, inc, err := NormalizeGST(nil, decPtr(t, "55.00"), dec(t, "0.10"))
	require.NoError(t, err)
	assertDecimal(t, "50.00", ex)
	assertDecimal(t, "55.00", inc)
}

func TestNormalizeGSTFromExOnly(t *testing.T) {
	ex, inc, err := NormalizeGST(decPtr(t, "50.00"), nil, dec(t, "0.10"))
	require.NoError(t, err)
	assertDecimal(t, "50.00", ex)
	assertDecimal(t, "55.00", inc)
}

func TestNormalizeGSTBothPresentTrustedVerbatim(t *testing.T) {
	// Deliberately inconsistent with the rate: both values are trusted
	// as given, only rounded.
	ex, inc, err := NormalizeGST(decPtr(t, "50.004"), decPtr(t, "60.005"), dec(t, "0.10"))
	require.NoError(t, err)
	assertDecimal(t, "50.00", ex)
	assertDecimal(t, "60.01", inc)
}

func TestNormalizeGSTMissingBoth(t *testing.T) {
	_, _, err := NormalizeGST(nil, nil, dec(t, "0.10"))
	assert.ErrorIs(t, err, ErrMissingPrice)
}

func TestNormalizeGSTRoundsHalfUp(t *testing.T) {
	// 10.125 / 1.10 = 9.204545..., rounds to 9.20; inc rounds 10.125 -> 10.13
	ex, inc, err := NormalizeGST(nil, decPtr(t, "10.125"), dec(t, "0.10"))
	require.NoError(t, err)
	assertDecimal(t, "9.20", ex)
	assertDecimal(t, "10.13", inc)
}

func TestNormalizeGSTRoundTrip(t *testing.T) {
	rate := dec(t, "0.10")
	for _, raw := range []string{"1.00", "9.99", "45.45", "330.00", "1234.56"} {
		ex := dec(t, raw)
		_, incFromEx, err := NormalizeGST(&ex, nil, rate)
		require.NoError(t, err)

		exBack, _, err := NormalizeGST(nil, &incFromEx, rate)
		require.NoError(t, err)

		diff := exBack.Sub(ex).Abs()
		assert.True(t, diff.LessThanOrEqual(dec(t, "0.01")),
			"round trip for %s drifted by %s", raw, diff)
	}
}

func TestNormalizeGSTZeroRate(t *testing.T) {
	ex, inc, err := NormalizeGST(decPtr(t, "20.00"), nil, decimal.Zero)
	require.NoError(t, err)
	assertDecimal(t, "20.00", ex)
	assertDecimal(t, "20.00", inc)
}
