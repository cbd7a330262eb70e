package kyc

import (
	"context"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// StartAadhaarSession validates the number, walks the consent adapter chain,
// registers the winning session, marks the profile pending, and starts the
// polling loop. When every adapter fails, the profile is still marked pending
// and a DegradedError is returned: only format validation took place, and the
// caller must never present the attempt as verified.
func (s *DefaultKYCService) StartAadhaarSession(ctx context.Context, userID, aadhaarNumber string) (*models.VerificationSession, *PollingHandle, error) {
	logger := utils.GetLogger()

	normalized, err := ValidateDocument(models.DocumentAadhaar, aadhaarNumber)
	if err != nil {
		return nil, nil, err
	}

	var sess *models.VerificationSession
	for _, adapter := range s.Adapters {
		created, adapterErr := adapter.Create(ctx, normalized)
		if adapterErr != nil {
			logger.Warn("consent adapter failed, trying next",
				zap.String("adapter", adapter.Name()),
				zap.Error(adapterErr))
			continue
		}
		sess = created
		logger.Info("consent session created",
			zap.String("adapter", adapter.Name()),
			zap.String("sessionID", sess.SessionID))
		break
	}

	if sess == nil {
		// Deliberate partial-success policy: never block the user entirely on
		// a provider outage, but never claim a verification that did not run.
		if perr := s.Persister.PersistStatus(userID, models.KYCPending); perr != nil {
			logger.Error("failed to mark profile pending after adapter outage",
				zap.String("userID", userID), zap.Error(perr))
		}
		return nil, nil, DegradedError{
			Note: "identity provider unreachable; only document format was validated",
		}
	}

	now := time.Now()
	sess.UserID = userID
	sess.AadhaarNumber = maskAadhaar(normalized)
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.sessionTTL)
	sess.MaxPolls = s.maxPolls
	sess.Status = models.SessionPending

	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, nil, err
	}
	if err := s.Persister.PersistStatus(userID, models.KYCPending); err != nil {
		return nil, nil, err
	}
	if s.Tasks != nil {
		if err := s.Tasks.ScheduleSessionSweep(sess.SessionID, userID, sess.ExpiresAt.Add(time.Minute)); err != nil {
			logger.Warn("failed to schedule session sweep", zap.String("sessionID", sess.SessionID), zap.Error(err))
		}
	}

	handle, err := s.startPolling(sess)
	if err != nil {
		return nil, nil, err
	}
	return sess, handle, nil
}

// SessionStatus returns the canonical session record plus, once verified, the
// user profile carrying the persisted attributes.
func (s *DefaultKYCService) SessionStatus(ctx context.Context, sessionID string) (*models.VerificationSession, *models.User, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, ErrSessionNotFound
	}

	var usr *models.User
	if sess.Status == models.SessionVerified {
		usr, err = s.Repo.GetByIDWithProjection(sess.UserID, bson.M{
			"id": 1, "name": 1, "kycStatus": 1, "kycMethod": 1, "kycVerifiedAt": 1, "kycData": 1,
		})
		if err != nil {
			utils.GetLogger().Warn("verified session but profile read failed",
				zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	return sess, usr, nil
}

// CancelSession cancels the polling loop for a session owned by this process.
// Cancellation stops further provider calls within one tick and releases the
// consent context; the session record itself is left as-is.
func (s *DefaultKYCService) CancelSession(sessionID string) bool {
	v, ok := s.handles.Load(sessionID)
	if !ok {
		return false
	}
	v.(*PollingHandle).Cancel()
	return true
}
