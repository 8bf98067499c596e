// Package api implements the REST binding to the StreamBuddy backend. It owns
// the base address, the opaque session token, and the outbound rate limiter;
// every other package reaches the backend through a *Client.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/streambuddy/cli/internal/logging"
)

// Client is a configured request sender with a fixed base address. Once a
// session is active the stored token is attached to every request as
// "Authorization: Token <value>".
type Client struct {
	HTTPClient *http.Client

	baseURL string
	logger  *slog.Logger
	limiter *rate.Limiter

	mu    sync.RWMutex
	token string
}

// New constructs a Client for the provided base URL. requestsPerMinute bounds
// the outbound request rate so scripted invocations stay under the backend's
// burst throttle; zero or negative disables the limiter.
func New(baseURL string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}

	return &Client{
		HTTPClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		limiter:    limiter,
	}
}

// SetToken arms the client to attach the token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken detaches the token from the client.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Token returns the currently armed token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues a single request against the backend. A non-nil out is decoded
// from the response body as JSON. Non-2xx responses are returned as a
// *StatusError. No retries and no internal timeout; the context is honored.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	reqLogger := logging.FromContext(ctx).With(
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
	)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		reqLogger.Warn("request failed", "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	reqLogger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newStatusError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
