package kyc

import (
	"testing"
	"time"

	"agrimandi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifiedResult(name string) *models.VerificationResult {
	return &models.VerificationResult{
		Verified:   true,
		Method:     models.MethodAadhaarDigiLocker,
		VerifiedAt: time.Now(),
		Attributes: &models.ExtractedAttributes{Name: name},
		Raw:        map[string]interface{}{"status": "authenticated"},
	}
}

func TestPersistForwardTransitions(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	p := &StatePersister{Repo: repo}

	require.NoError(t, p.PersistStatus("u1", models.KYCPending))
	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCPending, usr.KYCStatus)

	_, err := p.Persist("u1", verifiedResult("Asha Rao"))
	require.NoError(t, err)
	usr, _ = repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)
	assert.Equal(t, models.MethodAadhaarDigiLocker, usr.KYCMethod)
	assert.Equal(t, "Asha Rao", usr.KYCData["name"])
}

func TestPersistVerifiedIsNeverRegressed(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	p := &StatePersister{Repo: repo}

	_, err := p.Persist("u1", verifiedResult("Asha Rao"))
	require.NoError(t, err)

	// A stale pending result must not touch the profile.
	require.NoError(t, p.PersistStatus("u1", models.KYCPending))
	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)

	// Neither must a stale negative one.
	_, err = p.Persist("u1", &models.VerificationResult{Verified: false, Method: models.MethodPAN})
	require.NoError(t, err)
	usr, _ = repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)
}

func TestPersistVerifiedRefreshIsAllowed(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	p := &StatePersister{Repo: repo}

	_, err := p.Persist("u1", verifiedResult("Asha Rao"))
	require.NoError(t, err)

	// A new explicitly verified result may refresh the audit payload.
	refreshed := verifiedResult("Asha R Rao")
	refreshed.Method = models.MethodAadhaarOCR
	_, err = p.Persist("u1", refreshed)
	require.NoError(t, err)

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCVerified, usr.KYCStatus)
	assert.Equal(t, models.MethodAadhaarOCR, usr.KYCMethod)
	assert.Equal(t, "Asha R Rao", usr.KYCData["name"])
}

func TestPersistRejectionAndRetry(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	p := &StatePersister{Repo: repo}

	_, err := p.Persist("u1", &models.VerificationResult{Verified: false, Method: models.MethodPAN})
	require.NoError(t, err)
	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCRejected, usr.KYCStatus)

	// A fresh attempt supersedes the rejection.
	require.NoError(t, p.PersistStatus("u1", models.KYCPending))
	usr, _ = repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCPending, usr.KYCStatus)
}

func TestPersistAttributesOnlyWhenVerified(t *testing.T) {
	repo := newFakeUserRepo(pendingUser("u1"))
	p := &StatePersister{Repo: repo}

	_, err := p.Persist("u1", &models.VerificationResult{
		Verified: false,
		Method:   models.MethodAadhaarOCR,
		Attributes: &models.ExtractedAttributes{
			Name:    "Should Not Persist",
			Address: "Should Not Persist Either",
		},
		Raw: map[string]interface{}{"success": false},
	})
	require.NoError(t, err)

	usr, _ := repo.GetByIDWithProjection("u1", nil)
	assert.Equal(t, models.KYCRejected, usr.KYCStatus)
	assert.Nil(t, usr.KYCVerifiedAt)
	assert.Empty(t, usr.KYCMethod)
	assert.Equal(t, "Asha Rao", usr.Name)

	// The raw verdict is audited, but extracted identity attributes must not
	// reach the profile off an unverified result.
	assert.Equal(t, false, usr.KYCData["success"])
	assert.NotContains(t, usr.KYCData, "name")
	assert.NotContains(t, usr.KYCData, "address")
}
