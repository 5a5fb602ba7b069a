package clients

import "errors"

var (
	// ErrInvalidName is returned when the client name is empty after trimming
	ErrInvalidName = errors.New("client name is required")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")
)
