package kyc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"agrimandi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPANSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/authorize", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	})
	mux.HandleFunc("/pan/verify", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ABCDE1234F", body["pan"])
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "PAN details are valid",
			"name":    "Asha Rao",
			"type":    "Individual",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, srv.URL)

	result, err := svc.VerifyPAN(context.Background(), "u1", "abcde1234f", "Asha Rao")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	require.NotNil(t, result.Attributes)
	assert.Equal(t, "Asha Rao", result.Attributes.Name)
	assert.Equal(t, models.MethodPAN, result.Method)

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)
	assert.Equal(t, models.MethodPAN, usr.KYCMethod)
	require.NotNil(t, usr.KYCVerifiedAt)
}

func TestVerifyPANProviderReportsInvalid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/authorize", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	})
	mux.HandleFunc("/pan/verify", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "PAN details are invalid",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, srv.URL)

	result, err := svc.VerifyPAN(context.Background(), "u1", "ABCDE1234F", "Asha Rao")
	require.NoError(t, err)
	assert.False(t, result.Verified)

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCRejected, usr.KYCStatus)
}

func TestVerifyPANWithoutBearerToken(t *testing.T) {
	// Authorize fails; the verify endpoint must still be called with the
	// static client headers and no Authorization header.
	mux := http.NewServeMux()
	mux.HandleFunc("/authorize", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/pan/verify", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "test-client", r.Header.Get("X-Client-Id"))
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "PAN details are valid",
			"name":    "Asha Rao",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, srv.URL)

	result, err := svc.VerifyPAN(context.Background(), "u1", "ABCDE1234F", "Asha Rao")
	require.NoError(t, err)
	assert.True(t, result.Verified)
}

func TestVerifyPANBadFormatMakesNoNetworkCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, srv.URL)

	_, err := svc.VerifyPAN(context.Background(), "u1", "NOT-A-PAN", "Asha Rao")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCNotStarted, usr.KYCStatus)
}

func TestVerifyPANMissingName(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, "http://unused.invalid")

	_, err := svc.VerifyPAN(context.Background(), "u1", "ABCDE1234F", "   ")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name_required", verr.Reason)
}

func TestVerifyPANProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := newFakeUserRepo(pendingUser("u1"))
	svc := newTestService(repo, newMemorySessionStore(), &recordPresenter{}, srv.URL)

	_, err := svc.VerifyPAN(context.Background(), "u1", "ABCDE1234F", "Asha Rao")
	var unavailable ProviderUnavailableError
	require.ErrorAs(t, err, &unavailable)
}
