package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agrimandi/models"
	"agrimandi/services/kyc"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubKYCService serves a single canned session.
type stubKYCService struct {
	sess *models.VerificationSession
	usr  *models.User
}

func (s *stubKYCService) VerifyPAN(context.Context, string, string, string) (*models.VerificationResult, error) {
	return nil, nil
}

func (s *stubKYCService) VerifyAadhaar(context.Context, string, kyc.AadhaarRequest) (*kyc.AadhaarOutcome, error) {
	return nil, nil
}

func (s *stubKYCService) SessionStatus(_ context.Context, sessionID string) (*models.VerificationSession, *models.User, error) {
	if s.sess != nil && s.sess.SessionID == sessionID {
		return s.sess, s.usr, nil
	}
	return nil, nil, kyc.ErrSessionNotFound
}

func (s *stubKYCService) CancelSession(string) bool { return false }

func statusRouter(svc kyc.KYCService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewKYCHandler(svc)
	r.GET("/api/kyc/aadhaar/session/:sessionID", h.AadhaarSessionStatusHandler)
	return r
}

func TestAadhaarSessionStatusNumberCorrelation(t *testing.T) {
	now := time.Now()
	router := statusRouter(&stubKYCService{
		sess: &models.VerificationSession{
			SessionID:     "sess-123",
			UserID:        "u1",
			AadhaarNumber: "XXXXXXXX1234",
			Status:        models.SessionPending,
			CreatedAt:     now,
			ExpiresAt:     now.Add(6 * time.Minute),
		},
	})

	tests := []struct {
		name     string
		url      string
		wantCode int
	}{
		{name: "no number supplied", url: "/api/kyc/aadhaar/session/sess-123", wantCode: http.StatusOK},
		{name: "matching number", url: "/api/kyc/aadhaar/session/sess-123?aadhaar_number=234567891234", wantCode: http.StatusOK},
		{name: "matching number with spaces", url: "/api/kyc/aadhaar/session/sess-123?aadhaar_number=2345+6789+1234", wantCode: http.StatusOK},
		{name: "wrong number", url: "/api/kyc/aadhaar/session/sess-123?aadhaar_number=234567899999", wantCode: http.StatusNotFound},
		{name: "unknown session", url: "/api/kyc/aadhaar/session/nope", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestAadhaarSessionStatusBody(t *testing.T) {
	now := time.Now()
	verifiedAt := now
	router := statusRouter(&stubKYCService{
		sess: &models.VerificationSession{
			SessionID:     "sess-123",
			UserID:        "u1",
			AadhaarNumber: "XXXXXXXX1234",
			Status:        models.SessionVerified,
			CreatedAt:     now,
			ExpiresAt:     now.Add(6 * time.Minute),
		},
		usr: &models.User{
			ID:            "u1",
			Name:          "Asha Rao",
			KYCStatus:     models.KYCVerified,
			KYCVerifiedAt: &verifiedAt,
			KYCData: map[string]interface{}{
				"name":          "Asha Rao",
				"date_of_birth": "1990-01-01",
			},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kyc/aadhaar/session/sess-123", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, "VERIFIED", body["status"])
	assert.Equal(t, "Asha Rao", body["name"])
	assert.Equal(t, "1990-01-01", body["date_of_birth"])
}
