// Package refresh implements the client side of the bine token-refresh
// endpoint.
package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultPath    = "/api/token/refresh"
	defaultTimeout = 10 * time.Second
)

// Client exchanges a current token for a fresh one over HTTP.
type Client struct {
	baseURL string
	path    string
	httpc   *http.Client
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (timeouts, transports).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithPath overrides the refresh endpoint path.
func WithPath(path string) Option {
	return func(c *Client) {
		c.path = path
	}
}

// NewClient creates a refresh client for the backend at baseURL.
func NewClient(baseURL string, options ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    defaultPath,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

type refreshRequest struct {
	Token string `json:"token"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// Refresh POSTs the current token and returns the replacement the endpoint
// issues. Any non-2xx status or a response without a token is an error.
func (c *Client) Refresh(ctx context.Context, current string) (string, error) {
	body, err := json.Marshal(refreshRequest{Token: current})
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] json.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] httpc.Do")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("[Refresh] refresh endpoint returned %d", resp.StatusCode)
	}

	var decoded refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "[Refresh] decode response")
	}
	if decoded.Token == "" {
		return "", errors.New("[Refresh] refresh response missing token")
	}

	return decoded.Token, nil
}
