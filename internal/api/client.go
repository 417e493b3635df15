// Package api binds the remote REST and WebSocket contracts. All server
// field-name aliases and the server clock skew are collapsed here, at the
// ingress boundary; the rest of the module only ever sees the canonical
// model shapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mataam/internal/config"
	"mataam/internal/model"
	"mataam/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client is the authenticated HTTP client for the ordering API.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	clock   ServerClock
	logger  zerolog.Logger
}

// NewClient creates a new API client bound to one session.
func NewClient(cfg config.APIConfig, sess *session.Session, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		session: sess,
		clock:   ServerClock{Offset: cfg.ClockOffset},
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// Clock returns the server clock correction in use.
func (c *Client) Clock() ServerClock {
	return c.clock
}

// do performs one JSON request. A non-2xx response carrying the structured
// error envelope becomes a *model.APIError; anything else is a plain error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.session.Token())
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &model.APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err == nil && len(apiErr.Errors) > 0 {
		return apiErr
	}

	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
