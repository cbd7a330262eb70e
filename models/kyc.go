package models

import "time"

// DocumentType identifies which government document is being verified.
type DocumentType string

const (
	DocumentPAN     DocumentType = "PAN"
	DocumentAadhaar DocumentType = "AADHAAR"
)

// Verification methods recorded on the profile after a successful flow.
const (
	MethodPAN               = "pan"
	MethodAadhaarDigiLocker = "aadhaar_digilocker"
	MethodAadhaarOCR        = "aadhaar_ocr"
)

// SessionStatus is the canonical state set of an Aadhaar consent session.
// Provider-specific status vocabulary is normalized into this set.
type SessionStatus string

const (
	SessionPending       SessionStatus = "PENDING"
	SessionAuthenticated SessionStatus = "AUTHENTICATED"
	SessionVerified      SessionStatus = "VERIFIED"
	SessionExpired       SessionStatus = "EXPIRED"
	SessionConsentDenied SessionStatus = "CONSENT_DENIED"
	SessionError         SessionStatus = "ERROR"
	SessionTimeout       SessionStatus = "TIMEOUT"
)

// Terminal reports whether no further transition can occur without a new session.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionVerified, SessionExpired, SessionConsentDenied, SessionError, SessionTimeout:
		return true
	}
	return false
}

// UserMessage maps a terminal status to the human-readable message surfaced to the user.
func (s SessionStatus) UserMessage() string {
	switch s {
	case SessionVerified:
		return "Aadhaar verified successfully"
	case SessionExpired:
		return "Verification link expired, please restart verification"
	case SessionConsentDenied:
		return "You denied consent; verification was cancelled"
	case SessionTimeout:
		return "Verification is taking longer than expected, please restart"
	case SessionError:
		return "Verification failed; your e-Aadhaar may not be available in DigiLocker"
	default:
		return "Verification in progress"
	}
}

// VerificationSession is the provider-tracked unit of an in-progress
// Aadhaar consent flow. Owned by the flow that created it; one active
// polling loop per session at a time.
type VerificationSession struct {
	SessionID       string        `json:"session_id"`
	UserID          string        `json:"user_id"`
	AadhaarNumber   string        `json:"aadhaar_number"`
	ConsentURL      string        `json:"consent_url"`
	LegacyRequestID string        `json:"legacy_request_id,omitempty"`
	Fallback        bool          `json:"fallback"`
	CreatedAt       time.Time     `json:"created_at"`
	ExpiresAt       time.Time     `json:"expires_at"`
	PollCount       int           `json:"poll_count"`
	MaxPolls        int           `json:"max_polls"`
	Status          SessionStatus `json:"status"`
}

// ExtractedAttributes holds identity attributes released by the provider
// after the user authenticates and consents.
type ExtractedAttributes struct {
	Name        string `json:"name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty"`
	FatherName  string `json:"father_name,omitempty"`
}

// VerificationResult is the determinate outcome of a verification flow.
// Attributes are only trusted when Verified is true.
type VerificationResult struct {
	Verified   bool                   `json:"verified"`
	Pending    bool                   `json:"verification_pending,omitempty"`
	Attributes *ExtractedAttributes   `json:"extracted_attributes,omitempty"`
	Method     string                 `json:"verification_method"`
	VerifiedAt time.Time              `json:"verified_at"`
	Raw        map[string]interface{} `json:"-"`
	Note       string                 `json:"note,omitempty"`
}
