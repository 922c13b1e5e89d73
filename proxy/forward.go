package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/reload"
)

const unauthorizedMessage = "Missing OAuth token in X-Access-Token header"

// Request is one call to the authenticated API proxy.
type Request struct {
	Method      string
	Path        string // endpoint path below the proxy prefix, e.g. /user
	RawQuery    string
	Body        []byte
	AccessToken string
}

// Forward sends req to the Reload AI-agent API with the client Basic
// credentials and, when present, the user's token.
func (c *Client) Forward(ctx context.Context, req Request) reload.Result {
	op, ok := reload.ResolveOperation(req.Path)
	if !ok {
		return reload.Failure(errors.ErrUnknownEndpoint, http.StatusNotFound,
			"Endpoint not implemented: "+req.Path+" (supported: "+strings.Join(reload.EndpointPaths(), ", ")+")")
	}
	if op.RequiresToken() && req.AccessToken == "" {
		return reload.Failure(errors.ErrUnauthorized, http.StatusUnauthorized, unauthorizedMessage)
	}

	creds, ok := c.credentials()
	if !ok {
		return reload.Failure(errors.ErrServerMisconfigured, http.StatusInternalServerError, misconfiguredMessage)
	}

	headers := http.Header{}
	headers.Set("Authorization", creds.basicAuth())
	if req.AccessToken != "" {
		headers.Set("X-Access-Token", req.AccessToken)
	}

	method := req.Method
	if method == "" {
		method = op.Method()
	}

	resp, err := c.do(ctx, upstreamRequest{
		operation: op.String(),
		method:    method,
		url:       withQuery(creds.apiBaseURL+c.cfg.GetProxyPrefix()+upstreamPath(op, req.Path), req.RawQuery),
		headers:   headers,
		body:      jsonBody(method, req.Body),
	})
	if err != nil {
		return internalError(creds, err)
	}
	return normalize(creds, resp, errors.ErrUpstream, agentFailedMessage)
}

// LegacyRequest is a call through the query parameter proxy. Authorization is
// passed upstream unchanged and no client credentials are added.
type LegacyRequest struct {
	Method        string
	Endpoint      string
	Authorization string
	Body          []byte
}

func (c *Client) ForwardLegacy(ctx context.Context, req LegacyRequest) reload.Result {
	if req.Endpoint == "" {
		return reload.Failure(errors.ErrMissingParameters, http.StatusBadRequest, "Endpoint parameter is required")
	}
	if req.Authorization == "" {
		return reload.Failure(errors.ErrUnauthorized, http.StatusUnauthorized, "Authorization token is required")
	}

	baseURL := c.cfg.GetAPIBaseURL()
	if baseURL == "" {
		return reload.Failure(errors.ErrServerMisconfigured, http.StatusInternalServerError, "Server configuration missing: RELOAD_API_BASE_URL not configured")
	}

	endpoint := req.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if !strings.HasPrefix(endpoint, "/v1/") {
		endpoint = "/v1" + endpoint
	}

	headers := http.Header{}
	headers.Set("Authorization", req.Authorization)

	creds, _ := c.credentials()
	resp, err := c.do(ctx, upstreamRequest{
		operation: "legacy",
		method:    req.Method,
		url:       baseURL + endpoint,
		headers:   headers,
		body:      jsonBody(req.Method, req.Body),
	})
	if err != nil {
		return internalError(creds, err)
	}
	return normalize(creds, resp, errors.ErrUpstream, legacyFailedMessage)
}

func upstreamPath(op reload.Operation, path string) string {
	if op == reload.OpUsageReportByID {
		trimmed := strings.Trim(path, "/")
		return op.Path(trimmed[strings.LastIndex(trimmed, "/")+1:])
	}
	return op.Path("")
}

func withQuery(u, rawQuery string) string {
	if rawQuery == "" {
		return u
	}
	return u + "?" + rawQuery
}

// jsonBody keeps the body only for methods that carry one and only when it is
// valid JSON; anything else is sent without a body.
func jsonBody(method string, body []byte) []byte {
	if method != http.MethodPost && method != http.MethodPut {
		return nil
	}
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return body
}
