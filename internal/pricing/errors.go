package pricing

import "errors"

// Validation errors. All are raised synchronously and never retried; the
// import pipeline records them per row and moves on.
var (
	// ErrMissingPrice means neither an ex-GST nor an inc-GST amount was supplied.
	ErrMissingPrice = errors.New("missing price: supply an ex-GST or inc-GST amount")

	// ErrMissingCartonUnits means a carton-level price arrived without a usable unit count.
	ErrMissingCartonUnits = errors.New("carton price without unit count")

	// ErrInvalidAmount means a supplied quantity could not be parsed as a decimal.
	ErrInvalidAmount = errors.New("invalid numeric amount")
)
