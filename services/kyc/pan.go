package kyc

import (
	"context"
	"strings"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"go.uber.org/zap"
)

// panVerifyResponse is the legacy provider's verdict for a PAN check.
type panVerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// VerifyPAN runs the synchronous PAN flow: validate, call the provider once,
// persist the outcome. The provider verdict is trusted only when it reports
// success together with an explicit "valid" message.
func (s *DefaultKYCService) VerifyPAN(ctx context.Context, userID, pan, name string) (*models.VerificationResult, error) {
	logger := utils.GetLogger()

	normalized, err := ValidateDocument(models.DocumentPAN, pan)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, ValidationError{Reason: "name_required"}
	}

	// A bearer token is preferred but optional; the endpoint also accepts
	// the static client headers.
	headers := s.client.clientHeaders()
	if cred := s.client.GetCredential(ctx); cred != nil {
		headers["Authorization"] = "Bearer " + cred.Token
	}

	var out panVerifyResponse
	err = s.client.postJSON(ctx, s.client.legacyBase+"/pan/verify", headers, map[string]string{
		"pan":             normalized,
		"name_as_per_pan": name,
	}, &out)
	if err != nil {
		return nil, err
	}

	verified := strings.EqualFold(out.Status, "success") &&
		strings.Contains(strings.ToLower(out.Message), "valid") &&
		!strings.Contains(strings.ToLower(out.Message), "invalid")

	result := &models.VerificationResult{
		Verified:   verified,
		Method:     models.MethodPAN,
		VerifiedAt: time.Now(),
		Raw: map[string]interface{}{
			"status":  out.Status,
			"message": out.Message,
			"type":    out.Type,
		},
	}
	if verified {
		result.Attributes = &models.ExtractedAttributes{Name: firstNonEmpty(out.Name, name)}
	} else {
		result.Note = out.Message
	}

	if _, err := s.Persister.Persist(userID, result); err != nil {
		logger.Error("failed to persist PAN verification outcome", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}

	logger.Info("PAN verification completed",
		zap.String("userID", userID),
		zap.Bool("verified", verified))
	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
