package kyc

import (
	"context"
	"fmt"

	"agrimandi/models"
)

// aadhaarDetailResponse carries the identity attributes released by the vault
// once the user has authenticated and consented.
type aadhaarDetailResponse struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	FatherName  string `json:"father_name"`
}

// fetchDetails retrieves extracted identity attributes for an authenticated
// session. Invoked only after the poller reaches AUTHENTICATED. Failure here
// is a PartialDataError: verification itself stands, enrichment is best-effort.
func (s *DefaultKYCService) fetchDetails(ctx context.Context, sess *models.VerificationSession) (*models.ExtractedAttributes, map[string]interface{}, error) {
	url := fmt.Sprintf("%s/digilocker/session/%s/aadhaar", s.client.primaryBase, sess.SessionID)
	if sess.Fallback {
		url = fmt.Sprintf("%s/aadhaar/link/%s/details", s.client.legacyBase, sess.LegacyRequestID)
	}

	var out aadhaarDetailResponse
	if err := s.client.getJSON(ctx, url, s.client.clientHeaders(), &out); err != nil {
		return nil, nil, PartialDataError{SessionID: sess.SessionID, Err: err}
	}

	attrs := &models.ExtractedAttributes{
		Name:        out.Name,
		DateOfBirth: out.DateOfBirth,
		Gender:      out.Gender,
		Address:     out.Address,
		FatherName:  out.FatherName,
	}
	raw := map[string]interface{}{
		"name":          out.Name,
		"date_of_birth": out.DateOfBirth,
		"gender":        out.Gender,
		"address":       out.Address,
		"father_name":   out.FatherName,
	}
	return attrs, raw, nil
}
