package kyc

import (
	"context"

	"agrimandi/utils"

	"go.uber.org/zap"
)

// Credential is a bearer token for legacy provider endpoints.
type Credential struct {
	Token string
}

// GetCredential attempts an authorize call against the legacy provider API.
// On any failure it returns nil rather than an error: several provider
// endpoints accept the static client id/secret headers directly, so an
// absent bearer token is a degraded mode, not a fatal one.
func (c *providerClient) GetCredential(ctx context.Context) *Credential {
	logger := utils.GetLogger()

	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.postJSON(ctx, c.legacyBase+"/authorize", nil, map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}, &out)
	if err != nil {
		logger.Warn("KYC provider authorize failed, proceeding without bearer token", zap.Error(err))
		return nil
	}
	if out.AccessToken == "" {
		logger.Warn("KYC provider authorize returned no access token")
		return nil
	}
	return &Credential{Token: out.AccessToken}
}
