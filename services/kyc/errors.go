package kyc

import (
	"errors"
	"fmt"
)

// ValidationError signals a malformed document number, rejected before any
// network call. Always user-correctable.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// ProviderUnavailableError signals a network failure or non-2xx response from
// the external verification provider.
type ProviderUnavailableError struct {
	Op  string
	Err error
}

func (e ProviderUnavailableError) Error() string {
	return fmt.Sprintf("verification provider unavailable during %s: %v", e.Op, e.Err)
}

func (e ProviderUnavailableError) Unwrap() error { return e.Err }

// MalformedPayloadError signals that the provider answered but the body could
// not be interpreted. Not retryable; the raw payload is kept for audit.
type MalformedPayloadError struct {
	Op  string
	Raw string
	Err error
}

func (e MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed provider payload during %s: %v", e.Op, e.Err)
}

func (e MalformedPayloadError) Unwrap() error { return e.Err }

// VerificationDeniedError signals that the provider explicitly reported the
// document/name pair as invalid, or the user denied consent. Terminal.
type VerificationDeniedError struct {
	Message string
}

func (e VerificationDeniedError) Error() string {
	return "verification denied: " + e.Message
}

// DegradedError signals that every consent adapter failed and only format
// validation took place. The flow is left pending rather than failed so that
// a provider outage never blocks registration outright.
type DegradedError struct {
	Note string
}

func (e DegradedError) Error() string {
	return "verification degraded: " + e.Note
}

// PartialDataError records that authentication succeeded but detail
// extraction failed. Never escalated to a verification failure.
type PartialDataError struct {
	SessionID string
	Err       error
}

func (e PartialDataError) Error() string {
	return fmt.Sprintf("partial data for session %s: %v", e.SessionID, e.Err)
}

func (e PartialDataError) Unwrap() error { return e.Err }

var (
	// ErrSessionNotFound is returned when a session ID has no registry record.
	ErrSessionNotFound = errors.New("verification session not found")
	// ErrPollerActive is returned when a second polling loop is attempted for
	// the same session.
	ErrPollerActive = errors.New("a polling loop is already active for this session")
)
