package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeBadRequest      = "bad_request"
)

// ErrHubStopped is returned by Submit once the hub loop has exited.
var ErrHubStopped = errors.New("hub stopped")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
