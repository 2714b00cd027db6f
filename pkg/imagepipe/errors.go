package imagepipe

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRemovalFailed is returned when background removal fails remotely
	ErrRemovalFailed = errors.New("background removal failed")

	// ErrCompositeFailed is returned when garment compositing fails remotely
	ErrCompositeFailed = errors.New("compositing failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the API key is invalid
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
)
