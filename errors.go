package linopt

import "errors"

// Sentinel errors returned by circuit construction and queries. All of them
// indicate caller mistakes detected at the boundary of the offending call;
// none are retryable. They may arrive wrapped, so match with errors.Is.
var (
	// ErrInvalidParameter indicates a malformed gate parameter, e.g. a
	// beamsplitter reflectivity outside [0,1].
	ErrInvalidParameter = errors.New("linopt: invalid gate parameter")

	// ErrInvalidModeAssignment indicates gate wiring whose mode indices are
	// out of range, duplicated, or mismatched with the gate's arity.
	ErrInvalidModeAssignment = errors.New("linopt: invalid mode assignment")

	// ErrDimensionMismatch indicates a Fock state whose length differs from
	// the circuit's mode count.
	ErrDimensionMismatch = errors.New("linopt: fock state length does not match mode count")

	// ErrEmptySupport indicates a renormalization request over an input row
	// whose raw probability mass is exactly zero.
	ErrEmptySupport = errors.New("linopt: cannot renormalize over empty support")

	// ErrPhotonBudgetExceeded indicates a query whose photon number is above
	// the simulator's configured budget. Amplitude cost is exponential in
	// photon number, so oversized queries are rejected up front rather than
	// left to run unboundedly.
	ErrPhotonBudgetExceeded = errors.New("linopt: photon number exceeds budget")
)
