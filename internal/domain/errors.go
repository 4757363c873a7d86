package domain

import "github.com/pkg/errors"

// Error kinds surfaced at the boundary of the indicator library and the
// history builder. Callers match them with errors.Is.
var (
	// ErrInsufficientData series shorter than the required lookback.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidConfiguration rejected analysis configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrMalformedSeries series that violates ordering or value constraints.
	ErrMalformedSeries = errors.New("malformed series")
	// ErrNoData history without a single classified record.
	ErrNoData = errors.New("no classified records")
)
