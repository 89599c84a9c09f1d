package sensitivity

import "errors"

// Sentinel errors for B' factorization and sensitivity computation.
var (
	// ErrSingular indicates a zero (or sub-minimum-pivot) pivot was hit
	// during LU factorization, with a minimum pivot typically around 1e-5.
	ErrSingular = errors.New("sensitivity: singular matrix (pivot below minimum)")

	// ErrDimensionMismatch indicates a right-hand-side vector's length did
	// not match the factorization's dimension.
	ErrDimensionMismatch = errors.New("sensitivity: dimension mismatch")

	// ErrConnectivityBreaking indicates a contingency's LODF denominator
	// fell at or below the configured threshold and must be routed through
	// the lost-pocket path instead of direct LODF multiplication.
	ErrConnectivityBreaking = errors.New("sensitivity: contingency breaks connectivity")
)
