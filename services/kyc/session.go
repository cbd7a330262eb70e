package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrimandi/models"
	"agrimandi/utils"

	"github.com/go-redis/redis/v8"
)

// SessionStore is the registry of in-flight consent sessions. It keeps the
// canonical session record readable by the status endpoint and enforces the
// one-active-poller-per-session invariant.
type SessionStore interface {
	Save(ctx context.Context, sess *models.VerificationSession) error
	Get(ctx context.Context, sessionID string) (*models.VerificationSession, error)
	AcquirePollLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleasePollLock(ctx context.Context, sessionID string) error
}

// sessionReadGrace keeps a terminal session record readable after expiry so
// late status polls from the client still get a definite answer.
const sessionReadGrace = 30 * time.Minute

// RedisSessionStore implements SessionStore on the dedicated KYC Redis DB.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore returns a SessionStore backed by the shared KYC Redis client.
func NewRedisSessionStore() *RedisSessionStore {
	return &RedisSessionStore{client: utils.GetKYCSessionClient()}
}

// Save writes the session record with a TTL bounded by its lifetime plus grace.
func (s *RedisSessionStore) Save(ctx context.Context, sess *models.VerificationSession) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt) + sessionReadGrace
	if ttl <= 0 {
		ttl = sessionReadGrace
	}
	key := utils.KYCSessionPrefix + sess.SessionID
	if err := s.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sess.SessionID, err)
	}
	return nil
}

// Get retrieves a session record, or nil if none exists.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.VerificationSession, error) {
	key := utils.KYCSessionPrefix + sessionID
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session %s: %w", sessionID, err)
	}
	var sess models.VerificationSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &sess, nil
}

// AcquirePollLock takes the per-session poller ownership lock. Exactly one
// polling loop may hold it at a time.
func (s *RedisSessionStore) AcquirePollLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	key := utils.KYCSessionLockPrefix + sessionID
	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire poll lock for %s: %w", sessionID, err)
	}
	return ok, nil
}

// ReleasePollLock drops the poller ownership lock.
func (s *RedisSessionStore) ReleasePollLock(ctx context.Context, sessionID string) error {
	key := utils.KYCSessionLockPrefix + sessionID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release poll lock for %s: %w", sessionID, err)
	}
	return nil
}
