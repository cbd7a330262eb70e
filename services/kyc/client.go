package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agrimandi/config"
)

// providerClient wraps outbound calls to the external verification provider.
// The primary base hosts the modern DigiLocker-style API (static client
// id/secret headers); the legacy base hosts the older endpoints, some of
// which require a bearer token from the authorize call.
type providerClient struct {
	http         *http.Client
	primaryBase  string
	legacyBase   string
	clientID     string
	clientSecret string
	redirectURL  string
}

func newProviderClient() *providerClient {
	return &providerClient{
		http:         &http.Client{Timeout: 30 * time.Second},
		primaryBase:  config.AppConfig.KYCPrimaryBaseURL,
		legacyBase:   config.AppConfig.KYCLegacyBaseURL,
		clientID:     config.AppConfig.KYCClientID,
		clientSecret: config.AppConfig.KYCClientSecret,
		redirectURL:  config.AppConfig.KYCRedirectURL,
	}
}

// clientHeaders returns the static credential headers the primary API accepts.
func (c *providerClient) clientHeaders() map[string]string {
	return map[string]string{
		"X-Client-Id":     c.clientID,
		"X-Client-Secret": c.clientSecret,
	}
}

// doJSON performs a JSON request and decodes the response into out (if non-nil).
// Non-2xx responses surface as ProviderUnavailableError; undecodable bodies as
// MalformedPayloadError with the raw payload attached.
func (c *providerClient) doJSON(ctx context.Context, method, url string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ProviderUnavailableError{Op: method + " " + url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ProviderUnavailableError{Op: method + " " + url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ProviderUnavailableError{
			Op:  method + " " + url,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 256)),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return MalformedPayloadError{Op: method + " " + url, Raw: string(raw), Err: err}
	}
	return nil
}

func (c *providerClient) postJSON(ctx context.Context, url string, headers map[string]string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, url, headers, body, out)
}

func (c *providerClient) getJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, url, headers, nil, out)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
