package modelgen

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrBadParams = errors.New("invalid generator parameters")
)
