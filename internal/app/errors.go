package app

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNoDipoles        = errors.New("dipole file has no entries")
	ErrNoElectrodes     = errors.New("electrode file has no entries")
	ErrNoConductivities = errors.New("conductivity tensor file has no entries")
)
