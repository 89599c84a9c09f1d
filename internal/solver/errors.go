package solver

import "errors"

// Sentinel errors for the solver driver.
var (
	// ErrAlreadyReleased indicates Release was called twice, or Solve was
	// called after Release — a resource-leak bug in the caller; failure to
	// release is a resource leak and must be logged.
	ErrAlreadyReleased = errors.New("solver: driver already released")

	// ErrNoVariables indicates a Problem was submitted with zero variables.
	ErrNoVariables = errors.New("solver: problem has no variables")

	// ErrIterationLimit indicates a driver's simplex did not reach
	// optimality within its iteration cap. The reference driver does not
	// return it: it reports that case as StatusTimeout with a nil error.
	ErrIterationLimit = errors.New("solver: simplex iteration limit reached")
)
