package scoring

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidInput marks inputs no neutral default can absorb, such as a
	// NaN years-of-experience value. Negative numbers are clamped instead.
	ErrInvalidInput = errors.New("invalid scoring input")
)
