package compare

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrEmptyVector    = errors.New("empty potential vector")
	ErrLengthMismatch = errors.New("potential vector length mismatch")
	ErrZeroNorm       = errors.New("zero norm")
)
