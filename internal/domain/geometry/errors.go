package geometry

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
