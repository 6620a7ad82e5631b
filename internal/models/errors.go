package models

import "errors"

// Common errors
var (
	// Ingestion errors
	ErrMissingCallID      = errors.New("call event has no id")
	ErrMissingExtensionID = errors.New("extension update has no id")
	ErrStaleEvent         = errors.New("event is older than stored record")

	// Registry errors
	ErrCallNotFound      = errors.New("call not found")
	ErrExtensionNotFound = errors.New("extension not found")

	// Transport errors
	ErrFeedClosed        = errors.New("event feed closed")
	ErrSnapshotFailed    = errors.New("snapshot fetch failed")
	ErrTelephonyTimeout  = errors.New("telephony request timed out")
	ErrTelephonyAPIError = errors.New("telephony API error")

	// Validation errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidFormat = errors.New("invalid format")
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// IsIngestError reports whether an error means a single bad event that should
// be dropped at the boundary rather than propagated.
func IsIngestError(err error) bool {
	return errors.Is(err, ErrMissingCallID) ||
		errors.Is(err, ErrMissingExtensionID) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsTransportError reports whether an error came from the pull/push transport
// and is therefore retryable by the scheduler.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrFeedClosed) ||
		errors.Is(err, ErrSnapshotFailed) ||
		errors.Is(err, ErrTelephonyTimeout) ||
		errors.Is(err, ErrTelephonyAPIError)
}
