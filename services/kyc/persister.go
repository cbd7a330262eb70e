package kyc

import (
	"fmt"
	"time"

	userRepo "agrimandi/database/repository/user"
	"agrimandi/models"
	"agrimandi/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// StatePersister is the single writer of the durable KYC fields on a user
// profile. Transitions are monotonic: not_started → pending → {verified |
// rejected}; a verified profile is never regressed by a stale or failed
// result, only refreshed by a new explicitly verified one.
type StatePersister struct {
	Repo userRepo.UserRepository
}

// Persist applies a verification result to the user's profile and returns the
// updated user. Extracted attributes are written only when the result is
// verified.
func (p *StatePersister) Persist(userID string, result *models.VerificationResult) (*models.User, error) {
	logger := utils.GetLogger()

	current, err := p.Repo.GetByIDWithProjection(userID, bson.M{"id": 1, "kycStatus": 1})
	if err != nil {
		return nil, fmt.Errorf("failed to read current KYC status: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}

	target := targetStatus(current.KYCStatus, result)
	if target == "" {
		// Nothing to write: the result would regress an already-settled state.
		logger.Debug("skipping KYC write; no forward transition",
			zap.String("userID", userID),
			zap.String("current", string(current.KYCStatus)))
		return current, nil
	}

	setFields := bson.M{"kycStatus": target}
	if target == models.KYCVerified {
		now := result.VerifiedAt
		if now.IsZero() {
			now = time.Now()
		}
		setFields["kycVerifiedAt"] = now
		setFields["kycMethod"] = result.Method
		setFields["kycData"] = auditPayload(result)
		if result.Attributes != nil {
			setFields["name"] = firstNonEmpty(result.Attributes.Name, current.Name)
		}
	} else if result.Raw != nil {
		setFields["kycData"] = auditPayload(result)
	}

	updated, err := p.Repo.UpdateKYCFields(userID, setFields)
	if err != nil {
		return nil, err
	}

	logger.Info("KYC state persisted",
		zap.String("userID", userID),
		zap.String("status", string(target)),
		zap.String("method", result.Method))
	return updated, nil
}

// PersistStatus records a bare status transition with no result payload, used
// when a flow starts (pending) or is explicitly denied (rejected).
func (p *StatePersister) PersistStatus(userID string, status models.KYCStatus) error {
	_, err := p.Persist(userID, &models.VerificationResult{
		Verified: status == models.KYCVerified,
		Pending:  status == models.KYCPending,
	})
	return err
}

// targetStatus resolves the forward transition, or "" when no write may occur.
func targetStatus(current models.KYCStatus, result *models.VerificationResult) models.KYCStatus {
	if result.Verified {
		// An explicit verified result always wins, including a refresh of an
		// already-verified profile.
		return models.KYCVerified
	}
	if current == models.KYCVerified {
		return ""
	}
	if result.Pending {
		if current == models.KYCRejected {
			// A fresh attempt supersedes an earlier rejection.
			return models.KYCPending
		}
		if current == models.KYCNotStarted || current == models.KYCPending {
			return models.KYCPending
		}
		return ""
	}
	// Determinate negative outcome (provider denial or user-denied consent).
	return models.KYCRejected
}

// auditPayload flattens the raw provider payload and extracted attributes
// into the kycData audit document. Attribute keys are flat strings so callers
// reading the profile never deal with nested BSON shapes. Attributes are
// trusted, and therefore persisted, only on a verified result; producers may
// attach them to a failed one but they must never reach the profile.
func auditPayload(result *models.VerificationResult) bson.M {
	payload := bson.M{}
	for k, v := range result.Raw {
		payload[k] = v
	}
	if result.Verified && result.Attributes != nil {
		attrs := map[string]string{
			"name":          result.Attributes.Name,
			"date_of_birth": result.Attributes.DateOfBirth,
			"gender":        result.Attributes.Gender,
			"address":       result.Attributes.Address,
			"father_name":   result.Attributes.FatherName,
		}
		for k, v := range attrs {
			if v != "" {
				payload[k] = v
			}
		}
	}
	if result.Note != "" {
		payload["note"] = result.Note
	}
	return payload
}
