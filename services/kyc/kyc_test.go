package kyc

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"agrimandi/models"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmailWithProjection(email string, _ bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(id string, set bson.M) error {
	_, err := r.UpdateKYCFields(id, set)
	return err
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateKYCFields(id string, set bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	for k, v := range set {
		switch k {
		case "kycStatus":
			u.KYCStatus = v.(models.KYCStatus)
		case "kycMethod":
			u.KYCMethod = v.(string)
		case "kycVerifiedAt":
			t := v.(time.Time)
			u.KYCVerifiedAt = &t
		case "kycData":
			data := make(map[string]interface{})
			for dk, dv := range v.(bson.M) {
				data[dk] = dv
			}
			u.KYCData = data
		case "name":
			u.Name = v.(string)
		case "tokenHash":
			u.TokenHash = v.(string)
		}
	}
	cp := *u
	return &cp, nil
}

// memorySessionStore is an in-memory SessionStore for tests.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.VerificationSession
	locks    map[string]bool
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		sessions: make(map[string]models.VerificationSession),
		locks:    make(map[string]bool),
	}
}

func (s *memorySessionStore) Save(_ context.Context, sess *models.VerificationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = *sess
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*models.VerificationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := sess
	return &cp, nil
}

func (s *memorySessionStore) AcquirePollLock(_ context.Context, sessionID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[sessionID] {
		return false, nil
	}
	s.locks[sessionID] = true
	return true, nil
}

func (s *memorySessionStore) ReleasePollLock(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, sessionID)
	return nil
}

// recordPresenter records consent-context opens and closes.
type recordPresenter struct {
	mu     sync.Mutex
	opens  []string
	closes []string
}

func (p *recordPresenter) Open(url string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opens = append(p.opens, url)
	return url, nil
}

func (p *recordPresenter) Close(handle string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes = append(p.closes, handle)
}

func (p *recordPresenter) closedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.closes)
}

// newTestService builds a DefaultKYCService against a stub provider with
// fast polling suited to tests.
func newTestService(repo *fakeUserRepo, store SessionStore, presenter ConsentPresenter, providerURL string) *DefaultKYCService {
	client := &providerClient{
		http:         &http.Client{Timeout: 5 * time.Second},
		primaryBase:  providerURL,
		legacyBase:   providerURL,
		clientID:     "test-client",
		clientSecret: "test-secret",
		redirectURL:  "https://example.test/kyc/callback",
	}
	svc := &DefaultKYCService{
		Repo:      repo,
		Sessions:  store,
		Presenter: presenter,
		Persister: &StatePersister{Repo: repo},
		Adapters: []ConsentAdapter{
			&primaryConsentAdapter{client: client},
			&legacyConsentAdapter{client: client},
		},
		client:       client,
		pollDelay:    time.Millisecond,
		pollInterval: 2 * time.Millisecond,
		maxPolls:     120,
		sessionTTL:   5 * time.Second,
	}
	svc.initVerifiers()
	return svc
}

func pendingUser(id string) *models.User {
	return &models.User{
		ID:        id,
		Name:      "Asha Rao",
		Email:     id + "@example.test",
		KYCStatus: models.KYCNotStarted,
	}
}
