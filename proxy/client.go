// Package proxy is the confidential half of the integration: it holds the
// client secret and talks to the Reload API on behalf of the browser.
package proxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/reload-agent-demo/internal/config"
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	misconfiguredMessage  = "Server configuration missing: RELOAD_CLIENT_ID, RELOAD_CLIENT_SECRET, or RELOAD_API_BASE_URL not configured"
	tokenFailedMessage    = "Token exchange failed"
	agentFailedMessage    = "AI Agent API request failed"
	legacyFailedMessage   = "Reload API request failed"
	redactedPlaceholder   = "[REDACTED]"
	maxUpstreamBodyLength = 10 << 20
)

// Metrics observes every upstream call. Status is 0 when no response arrived.
type Metrics interface {
	ObserveUpstream(operation string, status int, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveUpstream(string, int, time.Duration) {}

// Client forwards requests to Reload. Credentials are read from the config on
// every call and are never part of a Result.
type Client struct {
	cfg        config.ReloadConfig
	httpClient *http.Client
	metrics    Metrics
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithMetrics(m Metrics) Option {
	return func(client *Client) {
		if m != nil {
			client.metrics = m
		}
	}
}

func New(cfg config.ReloadConfig, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
		metrics:    noopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	clientID     string
	clientSecret string
	apiBaseURL   string
}

func (c *Client) credentials() (credentials, bool) {
	creds := credentials{
		clientID:     c.cfg.GetClientID(),
		clientSecret: c.cfg.GetClientSecret(),
		apiBaseURL:   c.cfg.GetAPIBaseURL(),
	}
	return creds, creds.clientID != "" && creds.clientSecret != "" && creds.apiBaseURL != ""
}

func (c credentials) basicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.clientID+":"+c.clientSecret))
}

// redact scrubs the secret and its Basic header encoding from s.
func (c credentials) redact(s string) string {
	if c.clientSecret == "" {
		return s
	}
	s = strings.ReplaceAll(s, c.clientSecret, redactedPlaceholder)
	return strings.ReplaceAll(s, strings.TrimPrefix(c.basicAuth(), "Basic "), redactedPlaceholder)
}

type upstreamRequest struct {
	operation string
	method    string
	url       string
	headers   http.Header
	body      []byte
}

type upstreamResponse struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, req upstreamRequest) (*upstreamResponse, error) {
	var body io.Reader
	if len(req.body) > 0 {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return nil, fmt.Errorf("[Client do] http.NewRequestWithContext: %w", err)
	}
	httpReq.Header = req.headers
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveUpstream(req.operation, 0, time.Since(start))
		return nil, fmt.Errorf("[Client do] httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBodyLength))
	c.metrics.ObserveUpstream(req.operation, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("[Client do] io.ReadAll: %w", err)
	}

	log.Debug().
		Str("operation", req.operation).
		Str("method", req.method).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("[Client do] upstream call")

	return &upstreamResponse{status: resp.StatusCode, body: respBody}, nil
}

// normalize turns an upstream response into a Result. Non-2xx responses carry
// the upstream message, 2xx responses carry the body as is.
func normalize(creds credentials, resp *upstreamResponse, failureKind error, fallback string) reload.Result {
	success := resp.status >= 200 && resp.status < 300
	trimmed := bytes.TrimSpace(resp.body)

	if !success {
		return reload.Failure(failureKind, resp.status, creds.redact(upstreamMessage(trimmed, fallback)))
	}

	if len(trimmed) == 0 {
		return reload.Success(resp.status, nil)
	}
	if !gjson.ValidBytes(trimmed) {
		return reload.Failure(errors.ErrInternalProxy, http.StatusInternalServerError, "upstream returned an invalid JSON body")
	}
	return reload.Success(resp.status, []byte(creds.redact(string(trimmed))))
}

func upstreamMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	for _, path := range []string{"error.message", "error", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return fallback
}

func internalError(creds credentials, err error) reload.Result {
	log.Err(err).Msg("[Client] upstream call failed")
	return reload.Failure(errors.ErrInternalProxy, http.StatusInternalServerError, creds.redact(err.Error()))
}
