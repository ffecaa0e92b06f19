package domain

import "errors"

var (
	// ErrMissingCredentials is returned by an adapter when its API key
	// is not configured. No network call is attempted in that case.
	ErrMissingCredentials = errors.New("api credentials not configured")

	// ErrInvalidRequest is returned when required parameters are absent.
	ErrInvalidRequest = errors.New("invalid request")
)
