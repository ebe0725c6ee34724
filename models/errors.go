package models

import "errors"

// Error taxonomy shared across services. Callers classify with errors.Is and
// map to HTTP status codes at the controller layer.
var (
	// ErrValidation covers malformed records and bad request data
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers unknown review/listing/manager ids
	ErrNotFound = errors.New("record not found")
	// ErrUnauthorized covers missing or invalid manager identity
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransition covers conflicting moderation state changes
	ErrInvalidTransition = errors.New("invalid moderation transition")
	// ErrTransient covers connection/timeout failures against the database
	// or an external provider; eligible for retries at the calling layer
	ErrTransient = errors.New("transient upstream failure")
)
