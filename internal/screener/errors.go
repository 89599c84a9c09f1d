package screener

import "errors"

// ErrUnknownThresholdKind is returned when a caller passes a ThresholdKind
// this package does not recognize.
var ErrUnknownThresholdKind = errors.New("screener: unknown threshold kind")
