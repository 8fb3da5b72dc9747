package pricing

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HashInput is the business key of an observation. The hash is a pure
// function of these fields plus the normalized inc-GST price; it never
// depends on derived metrics, so the same logical quote hashes identically
// regardless of packaging or cost state at computation time.
type HashInput struct {
	SKUID        int64
	CompanyID    int64
	LocationID   *int64 // empty component when nil
	ObservedAt   time.Time
	Channel      string
	PriceIncGST  decimal.Decimal // normalized, formatted to exactly 2 decimals
	IsCarton     bool
	CartonUnits  int // 0 when not a carton price
	PriceContext string
}

// ObservationHash builds the deterministic identity hash for an observation.
// The pipe-joined field order, date-only truncation (UTC), and 2-decimal
// price formatting are a compatibility surface: changing any of them breaks
// matching against previously stored hashes.
func ObservationHash(in HashInput) string {
	location := ""
	if in.LocationID != nil {
		location = strconv.FormatInt(*in.LocationID, 10)
	}

	carton := "0"
	units := 0
	if in.IsCarton {
		carton = "1"
		units = in.CartonUnits
	}

	parts := []string{
		strconv.FormatInt(in.SKUID, 10),
		strconv.FormatInt(in.CompanyID, 10),
		location,
		in.ObservedAt.UTC().Format("2006-01-02"),
		in.Channel,
		in.PriceIncGST.StringFixed(2),
		carton,
		strconv.Itoa(units),
		in.PriceContext,
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
