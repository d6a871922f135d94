package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/services"
)

const (
	// entitlementsPath is appended to the billing base URL
	entitlementsPath = "/v1/entitlements"
	// DefaultBillingTimeout is the default HTTP timeout for billing requests
	DefaultBillingTimeout = 10 * time.Second
)

// BillingClient implements services.EntitlementSource over HTTP.
type BillingClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewBillingClient creates a billing client for baseURL.
func NewBillingClient(baseURL, apiKey string) *BillingClient {
	return NewBillingClientWithConfig(baseURL, apiKey, DefaultBillingTimeout)
}

// NewBillingClientWithConfig creates a billing client with a custom timeout.
func NewBillingClientWithConfig(baseURL, apiKey string, timeout time.Duration) *BillingClient {
	return &BillingClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

var _ services.EntitlementSource = (*BillingClient)(nil)

// FetchEntitlement reads the current plan, usage and limits.
func (c *BillingClient) FetchEntitlement(ctx context.Context) (*models.Entitlement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+entitlementsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: billing request failed: %v", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: billing status %d", domain.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("billing API error (status %d): %s", resp.StatusCode, string(body))
	}

	var ent models.Entitlement
	if err := json.Unmarshal(body, &ent); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	ent.FetchedAt = c.now()
	return &ent, nil
}
