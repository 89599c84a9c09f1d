package collator

import "errors"

var (
	// ErrBasisSizeMismatch is returned when no row has a resolvable basis
	// column, leaving nothing to factorize (rows outside the basis range
	// are excluded).
	ErrBasisSizeMismatch = errors.New("collator: basis submatrix is not square after exclusion")

	// ErrSingularBasis wraps a LU failure while factoring the basis
	// submatrix — a numerical LU failure, e.g. singular after a topology
	// change.
	ErrSingularBasis = errors.New("collator: basis submatrix is singular")
)
