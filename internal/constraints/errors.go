package constraints

import "errors"

// Sentinel errors for the constraint generator.
var (
	// ErrUnknownCurative is returned when a curative lookup references a
	// (contingency, element) pair never registered via AddCurativeElement.
	ErrUnknownCurative = errors.New("constraints: unknown curative element")

	// ErrNoParades is returned when topology exclusivity is requested for a
	// father contingency that currently has no parades introduced.
	ErrNoParades = errors.New("constraints: father contingency has no active parades")

	// ErrConstraintBudgetExceeded is returned once the running cut count
	// passes Options.NbMaxConstraints, the configured constraint-count
	// abort condition; the caller maps this to diagnostics.MaxConstraintsReached.
	ErrConstraintBudgetExceeded = errors.New("constraints: constraint budget exceeded")
)
