package core

import "errors"

// Loader error kinds. Every loader failure matches exactly one of them
// with errors.Is.
var (
	// ErrConnectivity reports a transport-level failure.
	ErrConnectivity = errors.New("connectivity")

	// ErrInvalidData reports a non-200 status or a body that failed validation.
	ErrInvalidData = errors.New("invalid data")
)
