package variant

import "errors"

// Sentinel errors for variant overlay application.
var (
	// ErrAlreadyApplied indicates Apply was called twice on the same Overlay.
	ErrAlreadyApplied = errors.New("variant: overlay already applied")

	// ErrNotApplied indicates Rollback was called before Apply.
	ErrNotApplied = errors.New("variant: overlay not applied")

	// ErrOutageAlreadyOpen indicates a delta tried to open a branch that has
	// no recovery path (already open with no stored prior state) — this
	// variant should be reported as ignored rather than solved.
	ErrOutageAlreadyOpen = errors.New("variant: branch already open, cannot apply outage cleanly")
)
