package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrInvalidModel = errors.New("invalid sphere model")
)
