package kyc

import (
	"context"
	"sync"
	"time"

	"agrimandi/config"
	userRepo "agrimandi/database/repository/user"
	"agrimandi/models"
	"agrimandi/services/storage"
)

// KYCService is the business-logic interface for identity verification.
type KYCService interface {
	// VerifyPAN runs the synchronous PAN flow and persists the outcome.
	VerifyPAN(ctx context.Context, userID, pan, name string) (*models.VerificationResult, error)

	// VerifyAadhaar dispatches to the Aadhaar variant (digilocker or ocr)
	// registered under the given method tag. For the session-based variant a
	// DegradedError means both consent adapters failed and the profile was
	// left pending.
	VerifyAadhaar(ctx context.Context, method string, req AadhaarRequest) (*AadhaarOutcome, error)

	// SessionStatus reads the canonical state of a session from the registry.
	SessionStatus(ctx context.Context, sessionID string) (*models.VerificationSession, *models.User, error)

	// CancelSession tears down the polling loop owned by this process for the
	// given session, if any. Reports whether a loop was found.
	CancelSession(sessionID string) bool
}

// TaskScheduler schedules background KYC jobs. Nil-safe in the service:
// scheduling failures never fail a verification flow.
type TaskScheduler interface {
	ScheduleKYCNudge(userID, reason string, fireAt time.Time) error
	ScheduleSessionSweep(sessionID, userID string, fireAt time.Time) error
}

// DefaultKYCService is the production implementation.
type DefaultKYCService struct {
	Repo      userRepo.UserRepository
	Sessions  SessionStore
	Presenter ConsentPresenter
	Persister *StatePersister
	Adapters  []ConsentAdapter
	Storage   storage.StorageService
	Tasks     TaskScheduler

	client    *providerClient
	verifiers map[string]AadhaarVerifier

	// handles tracks the polling loops owned by this process, by session id.
	handles sync.Map

	pollDelay    time.Duration
	pollInterval time.Duration
	maxPolls     int
	sessionTTL   time.Duration
}

// NewKYCService wires the production service from configuration.
func NewKYCService(repo userRepo.UserRepository, sessions SessionStore, storageSvc storage.StorageService, tasks TaskScheduler) *DefaultKYCService {
	client := newProviderClient()
	svc := &DefaultKYCService{
		Repo:      repo,
		Sessions:  sessions,
		Presenter: RedirectPresenter{},
		Persister: &StatePersister{Repo: repo},
		Adapters: []ConsentAdapter{
			&primaryConsentAdapter{client: client},
			&legacyConsentAdapter{client: client},
		},
		Storage:      storageSvc,
		Tasks:        tasks,
		client:       client,
		pollDelay:    config.KYCPollDelay(),
		pollInterval: config.KYCPollInterval(),
		maxPolls:     config.AppConfig.KYCMaxPolls,
		sessionTTL:   config.KYCSessionTTL(),
	}
	svc.initVerifiers()
	return svc
}
