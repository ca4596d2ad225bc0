package vtk

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrChannelMismatch = errors.New("scalar channel length mismatch")
	ErrBadGrid         = errors.New("invalid sampling grid")
	ErrWriteFailed     = errors.New("vtk write failed")
)
