package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agrimandi/models"
	"agrimandi/services/kyc"
	"agrimandi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KYCHandler exposes the identity verification endpoints.
type KYCHandler struct {
	Svc kyc.KYCService
}

// NewKYCHandler creates a KYCHandler.
func NewKYCHandler(svc kyc.KYCService) *KYCHandler {
	return &KYCHandler{Svc: svc}
}

// panVerifyReq is the payload for POST /kyc/pan/verify.
type panVerifyReq struct {
	PAN  string `json:"pan" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// aadhaarSessionReq is the payload for POST /kyc/aadhaar/session.
type aadhaarSessionReq struct {
	AadhaarNumber string `json:"aadhaar_number" binding:"required"`
}

// VerifyPANHandler handles the synchronous PAN verification flow.
func (h *KYCHandler) VerifyPANHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req panVerifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload: " + err.Error()})
		return
	}

	result, err := h.Svc.VerifyPAN(c.Request.Context(), userID, req.PAN, req.Name)
	if err != nil {
		h.writeKYCError(c, err)
		return
	}

	resp := gin.H{
		"success":  true,
		"verified": result.Verified,
	}
	if result.Verified && result.Attributes != nil {
		resp["name"] = result.Attributes.Name
		if t, ok := result.Raw["type"].(string); ok && t != "" {
			resp["type"] = t
		}
	} else if result.Note != "" {
		resp["message"] = result.Note
	}

	logger.Info("PAN verification request served",
		zap.String("userID", userID),
		zap.Bool("verified", result.Verified))
	c.JSON(http.StatusOK, resp)
}

// CreateAadhaarSessionHandler starts the asynchronous DigiLocker consent flow.
func (h *KYCHandler) CreateAadhaarSessionHandler(c *gin.Context) {
	userID := c.GetString("userID")

	var req aadhaarSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload: " + err.Error()})
		return
	}

	outcome, err := h.Svc.VerifyAadhaar(c.Request.Context(), models.MethodAadhaarDigiLocker, kyc.AadhaarRequest{
		UserID:        userID,
		AadhaarNumber: req.AadhaarNumber,
	})
	if err != nil {
		var degraded kyc.DegradedError
		if errors.As(err, &degraded) {
			// Provider outage: surface a pending result, never a failure and
			// never a verification claim.
			c.JSON(http.StatusOK, gin.H{
				"success":              true,
				"verified":             false,
				"verification_pending": true,
				"note":                 degraded.Note,
			})
			return
		}
		h.writeKYCError(c, err)
		return
	}

	sess := outcome.Session
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"verified":             false,
		"verification_pending": true,
		"verification_id":      sess.SessionID,
		"verification_url":     sess.ConsentURL,
		"aadhaar_number":       sess.AadhaarNumber,
		"expires_at":           sess.ExpiresAt.Format(time.RFC3339),
	})
}

// AadhaarSessionStatusHandler reports the canonical session state; once the
// session is verified it includes the persisted identity attributes. An
// optional aadhaar_number query is correlated against the session record so a
// caller polling with the wrong number gets nothing.
func (h *KYCHandler) AadhaarSessionStatusHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")

	sess, usr, err := h.Svc.SessionStatus(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, kyc.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "verification session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if claimed := c.Query("aadhaar_number"); claimed != "" && !sessionNumberMatches(claimed, sess.AadhaarNumber) {
		c.JSON(http.StatusNotFound, gin.H{"error": "verification session not found"})
		return
	}

	resp := gin.H{
		"success":  true,
		"verified": sess.Status == models.SessionVerified,
		"status":   sess.Status,
		"message":  sess.Status.UserMessage(),
	}
	if usr != nil {
		for _, key := range []string{"name", "date_of_birth", "gender", "address", "father_name"} {
			if v, ok := usr.KYCData[key].(string); ok && v != "" {
				resp[key] = v
			}
		}
		if _, ok := resp["name"]; !ok && usr.Name != "" {
			resp["name"] = usr.Name
		}
	}
	c.JSON(http.StatusOK, resp)
}

// CancelAadhaarSessionHandler tears down the polling loop for a session.
func (h *KYCHandler) CancelAadhaarSessionHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if !h.Svc.CancelSession(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active polling loop for this session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "verification session cancelled"})
}

// VerifyAadhaarOCRHandler handles multipart document-scan verification.
func (h *KYCHandler) VerifyAadhaarOCRHandler(c *gin.Context) {
	userID := c.GetString("userID")

	aadhaarNumber := c.PostForm("aadhaar_number")
	if aadhaarNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aadhaar_number is required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document scan file is required"})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), file.Filename)
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}
	defer os.Remove(tmpPath)

	outcome, err := h.Svc.VerifyAadhaar(c.Request.Context(), models.MethodAadhaarOCR, kyc.AadhaarRequest{
		UserID:        userID,
		AadhaarNumber: aadhaarNumber,
		DocumentPath:  tmpPath,
	})
	if err != nil {
		h.writeKYCError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"verified":          outcome.Result.Verified,
		"extracted_details": outcome.Result.Attributes,
	})
}

// sessionNumberMatches correlates a claimed Aadhaar number with the masked
// number recorded on the session, by the visible last four digits.
func sessionNumberMatches(claimed, masked string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, claimed)
	if len(digits) < 4 || len(masked) < 4 {
		return false
	}
	return digits[len(digits)-4:] == masked[len(masked)-4:]
}

// writeKYCError maps the verification error taxonomy onto HTTP responses.
func (h *KYCHandler) writeKYCError(c *gin.Context, err error) {
	logger := utils.GetLogger()

	var validation kyc.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
		return
	}
	var denied kyc.VerificationDeniedError
	if errors.As(err, &denied) {
		c.JSON(http.StatusOK, gin.H{"success": true, "verified": false, "message": denied.Message})
		return
	}
	var unavailable kyc.ProviderUnavailableError
	if errors.As(err, &unavailable) {
		logger.Error("verification provider unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "verification provider is unavailable, please retry"})
		return
	}
	if errors.Is(err, kyc.ErrPollerActive) {
		c.JSON(http.StatusConflict, gin.H{"error": "a verification attempt for this session is already in progress"})
		return
	}

	logger.Error("KYC request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
