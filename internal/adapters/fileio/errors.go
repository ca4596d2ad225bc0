package fileio

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrUnreadableFile = errors.New("unreadable input file")
	ErrMalformedRow   = errors.New("malformed row")
)
