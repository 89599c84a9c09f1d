package scopf

import "errors"

// ErrMissingStepFuncs is returned when a required StepFuncs callback is
// nil at RunVariant time.
var ErrMissingStepFuncs = errors.New("scopf: required step callback is nil")
