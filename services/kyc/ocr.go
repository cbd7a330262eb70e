package kyc

import (
	"context"
	"fmt"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"go.uber.org/zap"
)

// ocrResponse is the provider's extraction verdict for an uploaded scan.
type ocrResponse struct {
	Success   bool   `json:"success"`
	Last4     string `json:"aadhaar_last4"`
	Extracted struct {
		Name        string `json:"name"`
		DateOfBirth string `json:"date_of_birth"`
		Gender      string `json:"gender"`
		Address     string `json:"address"`
	} `json:"extracted"`
}

// VerifyAadhaarOCR runs the OCR variant of Aadhaar verification: the document
// scan is stored, the provider extracts the printed details, and the claim is
// accepted when the extracted number matches the claimed one.
func (s *DefaultKYCService) VerifyAadhaarOCR(ctx context.Context, userID, localFilePath, aadhaarNumber string) (*models.VerificationResult, error) {
	logger := utils.GetLogger()

	normalized, err := ValidateDocument(models.DocumentAadhaar, aadhaarNumber)
	if err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, fmt.Errorf("document storage is not configured")
	}

	publicID, docURL, err := s.Storage.UploadFile(ctx, localFilePath, "kyc/aadhaar")
	if err != nil {
		return nil, fmt.Errorf("failed to store document scan: %w", err)
	}
	logger.Debug("document scan stored", zap.String("publicID", publicID))

	var out ocrResponse
	err = s.client.postJSON(ctx, s.client.primaryBase+"/ocr/aadhaar", s.client.clientHeaders(), map[string]string{
		"document_url":   docURL,
		"aadhaar_number": normalized,
	}, &out)
	if err != nil {
		return nil, err
	}

	verified := out.Success && out.Last4 != "" && out.Last4 == normalized[len(normalized)-4:]

	result := &models.VerificationResult{
		Verified:   verified,
		Method:     models.MethodAadhaarOCR,
		VerifiedAt: time.Now(),
		Raw: map[string]interface{}{
			"success":       out.Success,
			"aadhaar_last4": out.Last4,
			"document_ref":  publicID,
		},
	}
	if verified {
		result.Attributes = &models.ExtractedAttributes{
			Name:        out.Extracted.Name,
			DateOfBirth: out.Extracted.DateOfBirth,
			Gender:      out.Extracted.Gender,
			Address:     out.Extracted.Address,
		}
	} else {
		result.Note = "document details did not match the claimed Aadhaar number"
	}

	if _, err := s.Persister.Persist(userID, result); err != nil {
		return nil, err
	}

	logger.Info("OCR Aadhaar verification completed",
		zap.String("userID", userID),
		zap.Bool("verified", verified))
	return result, nil
}
