// Package apiclient is a Go client for the demo server's JSON API. It is what
// a non-browser agent uses to connect a Reload account and call the AI-agent
// endpoints through the server's proxy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/reload-agent-demo/authflow"
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	tokenRoute   = "/api/auth/token"
	agentRoute   = "/api/ai-agent"
	configRoute  = "/api/config"
	networkError = "Network Error"
)

// Response is the envelope every call returns, success or not.
type Response struct {
	Status     int             `json:"status"`
	StatusText string          `json:"statusText"`
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ErrorMessage picks the most specific message out of a failed response.
func (r Response) ErrorMessage() string {
	for _, path := range []string{"message", "error"} {
		if v := gjson.GetBytes(r.Data, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	if r.Error != "" {
		return r.Error
	}
	return "Server error. Please try again later."
}

// Decode unmarshals the response data into v.
func (r Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return errors.New("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// Request describes one AI-agent call. ID is only used by OpUsageReportByID.
type Request struct {
	Operation reload.Operation
	ID        string
	Query     url.Values
	Body      any
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(client *Client) {
		client.now = now
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ authflow.Exchanger = (*Client)(nil)

// ExchangeToken posts the code and verifier to the server, which adds the
// client secret and calls Reload.
func (c *Client) ExchangeToken(ctx context.Context, req oauth2.ExchangeRequest) (*oauth2.TokenResponse, error) {
	resp := c.send(ctx, http.MethodPost, tokenRoute, "", req)
	if !resp.Success {
		return nil, errors.NewFlowError(errors.ErrTokenExchangeFailed, resp.ErrorMessage())
	}

	token, err := oauth2.ParseTokenResponse(resp.Data)
	if err != nil {
		return nil, errors.NewFlowError(errors.ErrTokenExchangeFailed, "invalid token response")
	}
	return token, nil
}

// PublicConfig fetches the browser-visible client registration.
func (c *Client) PublicConfig(ctx context.Context) (authflow.ClientConfig, error) {
	var cfg authflow.ClientConfig
	resp := c.send(ctx, http.MethodGet, configRoute, "", nil)
	if !resp.Success {
		return cfg, fmt.Errorf("[Client PublicConfig] %s", resp.ErrorMessage())
	}
	if err := resp.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("[Client PublicConfig] resp.Decode: %w", err)
	}
	return cfg, nil
}

// Call invokes an AI-agent operation through the server proxy. token is sent
// as X-Access-Token when it is not empty.
func (c *Client) Call(ctx context.Context, token string, req Request) Response {
	if req.Operation.Method() == "" {
		return c.failure(http.StatusNotFound, "Endpoint not implemented")
	}
	if req.Operation == reload.OpUsageReportByID && req.ID == "" {
		return c.failure(http.StatusBadRequest, "report id is required")
	}

	path := agentRoute + req.Operation.Path(req.ID)
	if len(req.Query) > 0 {
		path += "?" + req.Query.Encode()
	}
	return c.send(ctx, req.Operation.Method(), path, token, req.Body)
}

func (c *Client) send(ctx context.Context, method, path, token string, body any) Response {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return c.failure(0, err.Error())
		}
		reader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return c.failure(0, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("X-Access-Token", token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("[Client send] request failed")
		return c.failure(0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure(0, err.Error())
	}

	out := Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		Timestamp:  c.now().UTC(),
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		if !json.Valid(trimmed) {
			out.Success = false
			out.Error = "invalid JSON response"
			return out
		}
		out.Data = json.RawMessage(trimmed)
	}
	if !out.Success && out.Error == "" {
		out.Error = out.ErrorMessage()
	}
	return out
}

func (c *Client) failure(status int, message string) Response {
	text := networkError
	if status != 0 {
		text = http.StatusText(status)
	}
	return Response{
		Status:     status,
		StatusText: text,
		Success:    false,
		Error:      message,
		Timestamp:  c.now().UTC(),
	}
}
