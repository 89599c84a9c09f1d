package config

import "errors"

// Sentinel errors for configuration ingestion and validation.
var (
	// ErrMissingKey indicates a required configuration key was absent.
	ErrMissingKey = errors.New("config: required key missing")

	// ErrBadType indicates a key's value could not be parsed as its declared bucket type.
	ErrBadType = errors.New("config: value does not match declared type")

	// ErrUnknownBucket indicates a type tag outside {INTEGER, FLOAT, DOUBLE, STRING, BOOLEAN}.
	ErrUnknownBucket = errors.New("config: unknown type bucket")

	// ErrInvalidMode indicates an unrecognized computation mode string.
	ErrInvalidMode = errors.New("config: invalid computation mode")
)
