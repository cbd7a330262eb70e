package kyc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"go.uber.org/zap"
)

// PollingHandle owns the resources of one polling loop: the delayed-start
// timer, the interval ticker, and the absolute deadline. Cancel tears all of
// them down as a unit; Done delivers the terminal status exactly once.
type PollingHandle struct {
	SessionID string

	cancel context.CancelFunc
	done   chan models.SessionStatus
	once   sync.Once
}

// Cancel stops the polling loop and releases the consent context. Safe to
// call more than once and after the loop has already terminated.
func (h *PollingHandle) Cancel() {
	h.cancel()
}

// Done returns a channel that receives the terminal session status (or is
// closed without a value when the loop was canceled before termination).
func (h *PollingHandle) Done() <-chan models.SessionStatus {
	return h.done
}

// sessionStatusResponse is the provider's raw status vocabulary for a session.
type sessionStatusResponse struct {
	Status    string `json:"status"`
	Verified  bool   `json:"verified"`
	ErrorCode string `json:"error_code"`
	Name      string `json:"name"`
}

// startPolling takes the per-session poller lock and launches the loop.
// Exactly one loop may run per session id at a time.
func (s *DefaultKYCService) startPolling(sess *models.VerificationSession) (*PollingHandle, error) {
	lockTTL := time.Until(sess.ExpiresAt) + time.Minute
	ok, err := s.Sessions.AcquirePollLock(context.Background(), sess.SessionID, lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPollerActive
	}

	ctx, cancel := context.WithDeadline(context.Background(), sess.ExpiresAt)
	handle := &PollingHandle{
		SessionID: sess.SessionID,
		cancel:    cancel,
		done:      make(chan models.SessionStatus, 1),
	}

	consentHandle, err := s.Presenter.Open(sess.ConsentURL)
	if err != nil {
		cancel()
		_ = s.Sessions.ReleasePollLock(context.Background(), sess.SessionID)
		return nil, fmt.Errorf("failed to open consent context: %w", err)
	}

	s.handles.Store(sess.SessionID, handle)
	go s.pollLoop(ctx, sess, handle, consentHandle)
	return handle, nil
}

// pollLoop is the session state machine. Ticks are strictly sequential: a new
// status query is only scheduled after the previous one resolved.
func (s *DefaultKYCService) pollLoop(ctx context.Context, sess *models.VerificationSession, handle *PollingHandle, consentHandle string) {
	defer handle.cancel()
	defer func() {
		_ = s.Sessions.ReleasePollLock(context.Background(), handle.SessionID)
	}()

	// Give the user time to reach the consent page before the first poll.
	initial := time.NewTimer(s.pollDelay)
	defer initial.Stop()
	select {
	case <-ctx.Done():
		s.finish(sess, handle, consentHandle, deadlineStatus(ctx))
		return
	case <-initial.C:
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		status := s.pollOnce(ctx, sess)
		if err := s.Sessions.Save(context.Background(), sess); err != nil {
			utils.GetLogger().Warn("failed to checkpoint session", zap.String("sessionID", sess.SessionID), zap.Error(err))
		}
		if status.Terminal() {
			s.finish(sess, handle, consentHandle, &status)
			return
		}

		select {
		case <-ctx.Done():
			s.finish(sess, handle, consentHandle, deadlineStatus(ctx))
			return
		case <-ticker.C:
		}
	}
}

// pollOnce evaluates the transition rules for a single tick and returns the
// resulting canonical status. sess is mutated in place (status, poll count).
func (s *DefaultKYCService) pollOnce(ctx context.Context, sess *models.VerificationSession) models.SessionStatus {
	logger := utils.GetLogger()

	raw, err := s.querySessionStatus(ctx, sess)
	if err != nil {
		// Transport or parse trouble is not terminal by itself; keep polling
		// until the attempt budget runs out.
		sess.PollCount++
		logger.Warn("session status poll failed",
			zap.String("sessionID", sess.SessionID),
			zap.Int("pollCount", sess.PollCount),
			zap.Error(err))
		if sess.PollCount >= sess.MaxPolls {
			sess.Status = models.SessionError
		}
		return sess.Status
	}

	switch normalizeProviderStatus(raw) {
	case models.SessionAuthenticated:
		if raw.ErrorCode == "eaadhaar_not_available" {
			// The user authenticated but the vault holds no e-Aadhaar for
			// them; further polling cannot change that.
			sess.Status = models.SessionError
			return sess.Status
		}
		sess.Status = models.SessionAuthenticated
		s.completeAuthenticated(ctx, sess)
		return sess.Status
	case models.SessionExpired:
		sess.Status = models.SessionExpired
	case models.SessionConsentDenied:
		sess.Status = models.SessionConsentDenied
	default:
		sess.PollCount++
		if sess.PollCount >= sess.MaxPolls {
			sess.Status = models.SessionTimeout
		}
	}
	return sess.Status
}

// completeAuthenticated hands off to the detail fetcher and persists the
// verified outcome. Detail fetch failure degrades enrichment, never the
// verification itself.
func (s *DefaultKYCService) completeAuthenticated(ctx context.Context, sess *models.VerificationSession) {
	logger := utils.GetLogger()

	attrs, raw, err := s.fetchDetails(ctx, sess)
	if err != nil {
		logger.Warn("identity confirmed but detail fetch failed; persisting without attributes",
			zap.String("sessionID", sess.SessionID),
			zap.Error(err))
	}

	result := &models.VerificationResult{
		Verified:   true,
		Attributes: attrs,
		Method:     models.MethodAadhaarDigiLocker,
		VerifiedAt: time.Now(),
		Raw:        raw,
	}
	if _, err := s.Persister.Persist(sess.UserID, result); err != nil {
		logger.Error("failed to persist verified outcome",
			zap.String("sessionID", sess.SessionID),
			zap.String("userID", sess.UserID),
			zap.Error(err))
		sess.Status = models.SessionError
		return
	}
	sess.Status = models.SessionVerified
}

// finish performs the single terminal transition: checkpoint the session,
// close the consent context, deliver the status, and stop. Guarded so that
// late ticks and cancels after a terminal state are no-ops.
func (s *DefaultKYCService) finish(sess *models.VerificationSession, handle *PollingHandle, consentHandle string, terminal *models.SessionStatus) {
	handle.once.Do(func() {
		logger := utils.GetLogger()
		s.handles.Delete(handle.SessionID)

		if terminal != nil {
			sess.Status = *terminal
			if err := s.Sessions.Save(context.Background(), sess); err != nil {
				logger.Warn("failed to record terminal session state",
					zap.String("sessionID", sess.SessionID), zap.Error(err))
			}
			s.afterTerminal(sess)
			handle.done <- *terminal
		}
		close(handle.done)
		s.Presenter.Close(consentHandle)

		logger.Info("polling loop stopped",
			zap.String("sessionID", sess.SessionID),
			zap.String("status", string(sess.Status)),
			zap.Int("polls", sess.PollCount))
	})
}

// afterTerminal applies the profile-side consequences of a terminal state and
// schedules the follow-up nudge where one makes sense.
func (s *DefaultKYCService) afterTerminal(sess *models.VerificationSession) {
	logger := utils.GetLogger()

	switch sess.Status {
	case models.SessionConsentDenied:
		// Explicit denial is a determinate negative outcome.
		if err := s.Persister.PersistStatus(sess.UserID, models.KYCRejected); err != nil {
			logger.Error("failed to persist consent denial", zap.String("userID", sess.UserID), zap.Error(err))
		}
	case models.SessionExpired, models.SessionTimeout, models.SessionError:
		// Profile stays pending: the user may simply restart with a new
		// session, so nothing is written.
	}

	if sess.Status != models.SessionVerified && s.Tasks != nil {
		if err := s.Tasks.ScheduleKYCNudge(sess.UserID, string(sess.Status), time.Now().Add(24*time.Hour)); err != nil {
			logger.Warn("failed to schedule KYC nudge", zap.String("userID", sess.UserID), zap.Error(err))
		}
	}
}

// querySessionStatus asks the owning provider API for the session's state.
func (s *DefaultKYCService) querySessionStatus(ctx context.Context, sess *models.VerificationSession) (*sessionStatusResponse, error) {
	url := fmt.Sprintf("%s/digilocker/session/%s/status", s.client.primaryBase, sess.SessionID)
	if sess.Fallback {
		url = fmt.Sprintf("%s/aadhaar/link/%s/status", s.client.legacyBase, sess.LegacyRequestID)
	}
	var out sessionStatusResponse
	if err := s.client.getJSON(ctx, url, s.client.clientHeaders(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// normalizeProviderStatus translates the provider's status vocabulary into
// the canonical state set. An authenticated verdict counts only when an
// extracted name is present; otherwise the session is still pending.
func normalizeProviderStatus(raw *sessionStatusResponse) models.SessionStatus {
	switch strings.ToLower(raw.Status) {
	case "authenticated", "success", "verified":
		if raw.Name != "" || raw.ErrorCode == "eaadhaar_not_available" {
			return models.SessionAuthenticated
		}
		return models.SessionPending
	case "expired":
		return models.SessionExpired
	case "consent_denied", "denied":
		return models.SessionConsentDenied
	default:
		if raw.Verified && raw.Name != "" {
			return models.SessionAuthenticated
		}
		return models.SessionPending
	}
}

// deadlineStatus maps context termination to a terminal status: the absolute
// deadline yields TIMEOUT, an explicit cancel yields no terminal state at all
// (the caller tore the flow down; nothing is delivered or persisted).
func deadlineStatus(ctx context.Context) *models.SessionStatus {
	if ctx.Err() == context.DeadlineExceeded {
		status := models.SessionTimeout
		return &status
	}
	return nil
}
