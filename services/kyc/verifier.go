package kyc

import (
	"context"

	"agrimandi/models"
)

// AadhaarRequest carries the inputs common to every Aadhaar verification
// variant. DocumentPath is only meaningful for the OCR variant.
type AadhaarRequest struct {
	UserID        string
	AadhaarNumber string
	DocumentPath  string
}

// AadhaarOutcome is the unified result of an Aadhaar verification attempt.
// Synchronous variants fill Result; session-based variants fill Session and
// Handle and resolve later through the poller.
type AadhaarOutcome struct {
	Result  *models.VerificationResult
	Session *models.VerificationSession
	Handle  *PollingHandle
}

// AadhaarVerifier is one variant of the Aadhaar flow, selected by its method
// tag rather than by which endpoint happened to receive the request.
type AadhaarVerifier interface {
	Method() string
	Verify(ctx context.Context, req AadhaarRequest) (*AadhaarOutcome, error)
}

// VerifyAadhaar dispatches to the variant registered under the given method tag.
func (s *DefaultKYCService) VerifyAadhaar(ctx context.Context, method string, req AadhaarRequest) (*AadhaarOutcome, error) {
	v, ok := s.verifiers[method]
	if !ok {
		return nil, ValidationError{Reason: "unknown_verification_method"}
	}
	return v.Verify(ctx, req)
}

func (s *DefaultKYCService) initVerifiers() {
	s.verifiers = map[string]AadhaarVerifier{
		models.MethodAadhaarDigiLocker: digiLockerVerifier{svc: s},
		models.MethodAadhaarOCR:        ocrVerifier{svc: s},
	}
}

// digiLockerVerifier runs the consent-session flow.
type digiLockerVerifier struct {
	svc *DefaultKYCService
}

func (v digiLockerVerifier) Method() string { return models.MethodAadhaarDigiLocker }

func (v digiLockerVerifier) Verify(ctx context.Context, req AadhaarRequest) (*AadhaarOutcome, error) {
	sess, handle, err := v.svc.StartAadhaarSession(ctx, req.UserID, req.AadhaarNumber)
	if err != nil {
		return nil, err
	}
	return &AadhaarOutcome{Session: sess, Handle: handle}, nil
}

// ocrVerifier runs the document-scan extraction flow.
type ocrVerifier struct {
	svc *DefaultKYCService
}

func (v ocrVerifier) Method() string { return models.MethodAadhaarOCR }

func (v ocrVerifier) Verify(ctx context.Context, req AadhaarRequest) (*AadhaarOutcome, error) {
	result, err := v.svc.VerifyAadhaarOCR(ctx, req.UserID, req.DocumentPath, req.AadhaarNumber)
	if err != nil {
		return nil, err
	}
	return &AadhaarOutcome{Result: result}, nil
}
