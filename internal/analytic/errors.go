package analytic

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNoElectrodes     = errors.New("no electrodes")
	ErrDipoleOutside    = errors.New("dipole outside innermost layer")
	ErrElectrodeCenter  = errors.New("electrode at model center")
	ErrSeriesDegenerate = errors.New("degenerate series coefficient")
)
