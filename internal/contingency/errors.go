package contingency

import "errors"

// Sentinel errors for contingency and parade construction.
var (
	// ErrUnknownCurativeKind indicates apply_curative was asked to dispatch
	// on a CurativeKind outside the known tagged-variant set.
	ErrUnknownCurativeKind = errors.New("contingency: unknown curative element kind")

	// ErrEmptyIncidentID indicates an Incident was built with no ID.
	ErrEmptyIncidentID = errors.New("contingency: incident id is empty")

	// ErrParadeWithoutFather indicates a Parade was built with a nil father Incident.
	ErrParadeWithoutFather = errors.New("contingency: parade has no father incident")
)
