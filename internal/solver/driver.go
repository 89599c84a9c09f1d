package solver

// Driver is the narrow seam drawn around the actual LP/MIP engine:
// METRIX's real solver is an external collaborator (a commercial or
// open-source MIP package driven over its own C/C++ API), so this
// package only fixes the shape of the conversation with it. Production
// wiring implements Driver against that external engine; the reference
// subpackage ships Reference, a small in-memory driver good enough to exercise
// the SCOPF outer loop in tests.
type Driver interface {
	// SolveLP relaxes every Binary variable to its continuous bounds and
	// solves the resulting LP. warmStart may be nil.
	SolveLP(p Problem, warmStart *Solution) (Solution, error)

	// SolveMIP solves p honoring Binary variables' integrality. warmStart
	// may be nil. Called once the outer loop has added its first
	// activation variable: the problem becomes a MIP on the first binary
	// activation variable.
	SolveMIP(p Problem, warmStart *Solution) (Solution, error)

	// Release frees any resources (license handles, native memory) held
	// by the driver. Callers must call it exactly once when done.
	Release() error
}
