package kyc

import (
	"context"
	"fmt"
	"net/url"

	"agrimandi/models"

	"github.com/google/uuid"
)

// ConsentAdapter creates a consent session with the external provider.
// Adapters are tried in order; the first success wins.
type ConsentAdapter interface {
	Name() string
	Create(ctx context.Context, aadhaarNumber string) (*models.VerificationSession, error)
}

// primaryConsentAdapter calls the modern DigiLocker-style endpoint using
// static client id/secret headers.
type primaryConsentAdapter struct {
	client *providerClient
}

func (a *primaryConsentAdapter) Name() string { return "primary_digilocker" }

func (a *primaryConsentAdapter) Create(ctx context.Context, aadhaarNumber string) (*models.VerificationSession, error) {
	// The redirect target carries a local correlation id and the document
	// number so the callback can be matched to this attempt.
	correlationID := uuid.NewString()
	redirect := fmt.Sprintf("%s?verification_id=%s&document=%s",
		a.client.redirectURL, correlationID, url.QueryEscape(maskAadhaar(aadhaarNumber)))

	var out struct {
		SessionID  string `json:"session_id"`
		ConsentURL string `json:"consent_url"`
	}
	err := a.client.postJSON(ctx, a.client.primaryBase+"/digilocker/session", a.client.clientHeaders(), map[string]string{
		"document": aadhaarNumber,
		"flow":     "digilocker",
		"redirect": redirect,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.ConsentURL == "" {
		return nil, MalformedPayloadError{
			Op:  "create digilocker session",
			Err: fmt.Errorf("response carried no consent URL"),
		}
	}

	sessionID := out.SessionID
	if sessionID == "" {
		sessionID = correlationID
	}
	return &models.VerificationSession{
		SessionID:  sessionID,
		ConsentURL: out.ConsentURL,
	}, nil
}

// legacyConsentAdapter calls the older link-creation endpoint, which requires
// a bearer token from the authorize call.
type legacyConsentAdapter struct {
	client *providerClient
}

func (a *legacyConsentAdapter) Name() string { return "legacy_link" }

func (a *legacyConsentAdapter) Create(ctx context.Context, aadhaarNumber string) (*models.VerificationSession, error) {
	cred := a.client.GetCredential(ctx)
	if cred == nil {
		return nil, ProviderUnavailableError{
			Op:  "legacy authorize",
			Err: fmt.Errorf("bearer token required but unavailable"),
		}
	}

	var out struct {
		RequestID string `json:"request_id"`
		URL       string `json:"url"`
	}
	err := a.client.postJSON(ctx, a.client.legacyBase+"/aadhaar/link", map[string]string{
		"Authorization": "Bearer " + cred.Token,
	}, map[string]string{
		"aadhaar_number": aadhaarNumber,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, MalformedPayloadError{
			Op:  "create legacy link",
			Err: fmt.Errorf("response carried no verification URL"),
		}
	}

	// The legacy API issues a request id, not a session id; a local id keys
	// the registry and the request id is kept for status correlation.
	return &models.VerificationSession{
		SessionID:       "lgc-" + uuid.NewString(),
		ConsentURL:      out.URL,
		LegacyRequestID: out.RequestID,
		Fallback:        true,
	}, nil
}

// maskAadhaar keeps only the last four digits visible.
func maskAadhaar(number string) string {
	if len(number) < 4 {
		return "XXXX"
	}
	return "XXXXXXXX" + number[len(number)-4:]
}
