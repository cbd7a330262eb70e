package kyc

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"agrimandi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsentFallsBackToLegacyAdapter(t *testing.T) {
	stub := &providerStub{
		primaryDown: true,
		statusScript: []map[string]interface{}{
			{"status": "pending"},
			{"status": "authenticated", "name": "Asha Rao"},
		},
	}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	store := newMemorySessionStore()
	presenter := &recordPresenter{}
	svc := newTestService(repo, store, presenter, srv.URL)

	sess, handle, err := svc.StartAadhaarSession(context.Background(), "u1", "234567891234")
	require.NoError(t, err)
	assert.True(t, sess.Fallback)
	assert.Equal(t, "req-9", sess.LegacyRequestID)
	assert.True(t, len(sess.SessionID) > 4 && sess.SessionID[:4] == "lgc-")
	assert.Equal(t, "https://provider.test/legacy/consent/req-9", sess.ConsentURL)

	// The legacy status and detail endpoints serve the rest of the flow.
	status, ok := waitDone(t, handle)
	require.True(t, ok)
	assert.Equal(t, models.SessionVerified, status)

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)
	assert.Equal(t, "Asha Rao", usr.KYCData["name"])
}

func TestConsentChainExhaustedReturnsDegraded(t *testing.T) {
	stub := &providerStub{primaryDown: true, legacyDown: true}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	presenter := &recordPresenter{}
	svc := newTestService(repo, newMemorySessionStore(), presenter, srv.URL)

	sess, handle, err := svc.StartAadhaarSession(context.Background(), "u1", "234567891234")
	assert.Nil(t, sess)
	assert.Nil(t, handle)

	var degraded DegradedError
	require.ErrorAs(t, err, &degraded)

	// Only format validation ran; the profile records the attempt but a
	// degraded outcome never reads as verified.
	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCPending, usr.KYCStatus)
	assert.Empty(t, presenter.opens)
	assert.Equal(t, 0, stub.statusCallCount())
}

func TestConsentBadAadhaarFormatShortCircuits(t *testing.T) {
	stub := &providerStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, srv.URL)

	// Aadhaar numbers never start with 0 or 1.
	_, _, err := svc.StartAadhaarSession(context.Background(), "u1", "034567891234")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bad_aadhaar_format", verr.Reason)

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCNotStarted, usr.KYCStatus)
}

func TestMaskAadhaar(t *testing.T) {
	assert.Equal(t, "XXXXXXXX9876", maskAadhaar("234567899876"))
	assert.Equal(t, "XXXX", maskAadhaar("987"))
}

func TestSessionStatusUnknownSession(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, "http://unused.invalid")

	_, _, err := svc.SessionStatus(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStatusIncludesProfileWhenVerified(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	store := newMemorySessionStore()
	svc := newTestService(repo, store, &recordPresenter{}, "http://unused.invalid")

	now := time.Now()
	verifiedAt := now
	repo.users["u1"].KYCStatus = models.KYCVerified
	repo.users["u1"].KYCVerifiedAt = &verifiedAt
	require.NoError(t, store.Save(context.Background(), &models.VerificationSession{
		SessionID: "sess-v",
		UserID:    "u1",
		Status:    models.SessionVerified,
		CreatedAt: now,
		ExpiresAt: now.Add(6 * time.Minute),
	}))

	sess, usr, err := svc.SessionStatus(context.Background(), "sess-v")
	require.NoError(t, err)
	assert.Equal(t, models.SessionVerified, sess.Status)
	require.NotNil(t, usr)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)
}
