package solver

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrUnknownDriver   = errors.New("unknown driver type")
	ErrInvalidConfig   = errors.New("invalid driver config")
	ErrNoElectrodes    = errors.New("no electrodes configured")
	ErrUnsolvedField   = errors.New("field has not been solved")
	ErrForeignField    = errors.New("field does not belong to this driver")
	ErrUnknownEvalMode = errors.New("unknown electrode evaluation mode")
)
