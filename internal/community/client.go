// Package community queries the external community registry. The gateway
// only ever asks one question of it: does this community uniq id exist.
package community

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	registrycontract "kudos/contracts/registry"
	"kudos/pkg/platform/sentinel"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Client answers community existence checks.
type Client interface {
	DoesCommunityExist(ctx context.Context, uniqID string) (bool, error)
}

// HTTPClient talks to the community registry service over HTTP using the
// shared contract types.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient constructs a registry client for the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *HTTPClient) DoesCommunityExist(ctx context.Context, uniqID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/communities/%s/exists", c.baseURL, url.PathEscape(uniqID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build registry request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("query community registry: %w", sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("community registry returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var body registrycontract.ExistsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode registry response: %w", err)
	}
	return body.Exists, nil
}

// MockClient answers existence checks from a fixed set. Used by tests and
// local development; a configurable latency mimics real-world registry
// calls.
type MockClient struct {
	Communities map[string]bool
	Latency     time.Duration
}

func (c *MockClient) DoesCommunityExist(_ context.Context, uniqID string) (bool, error) {
	time.Sleep(c.Latency)
	return c.Communities[uniqID], nil
}
