package proxy

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/rs/zerolog/log"
)

const missingParametersMessage = "Missing required parameters: code, codeVerifier"

// ExchangeToken handles a raw exchange request body as posted by the browser.
// A body that does not decode is treated like one with missing fields.
func (c *Client) ExchangeToken(ctx context.Context, raw []byte) reload.Result {
	var req oauth2.ExchangeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return reload.Failure(errors.ErrMissingParameters, http.StatusBadRequest, missingParametersMessage)
	}
	return c.Exchange(ctx, req)
}

// Exchange swaps the authorization code for a token at Reload's token
// endpoint, adding the client credentials server side.
func (c *Client) Exchange(ctx context.Context, req oauth2.ExchangeRequest) reload.Result {
	if !req.Validate() {
		return reload.Failure(errors.ErrMissingParameters, http.StatusBadRequest, missingParametersMessage)
	}

	creds, ok := c.credentials()
	if !ok {
		log.Error().Msg("[Client Exchange] reload client credentials are not configured")
		return reload.Failure(errors.ErrServerMisconfigured, http.StatusInternalServerError, misconfiguredMessage)
	}

	body, err := json.Marshal(oauth2.NewTokenRequest(req, creds.clientID, creds.clientSecret, c.cfg.GetRedirectURI()))
	if err != nil {
		return internalError(creds, err)
	}

	resp, err := c.do(ctx, upstreamRequest{
		operation: "token",
		method:    http.MethodPost,
		url:       creds.apiBaseURL + c.cfg.GetTokenPath(),
		headers:   http.Header{},
		body:      body,
	})
	if err != nil {
		return internalError(creds, err)
	}

	result := normalize(creds, resp, errors.ErrTokenExchangeFailed, tokenFailedMessage)
	if !result.OK {
		log.Warn().Int("status", result.Status).Str("error", result.Error).Msg("[Client Exchange] token exchange rejected")
	}
	return result
}

// RequestToken runs Exchange and decodes the token payload. It satisfies the
// authorization flow's exchanger when the server handles the callback itself.
func (c *Client) RequestToken(ctx context.Context, req oauth2.ExchangeRequest) (*oauth2.TokenResponse, error) {
	result := c.Exchange(ctx, req)
	if !result.OK {
		return nil, errors.NewFlowError(result.Kind, result.Error)
	}

	token, err := oauth2.ParseTokenResponse(result.Data)
	if err != nil {
		return nil, errors.NewFlowError(errors.ErrTokenExchangeFailed, err.Error())
	}
	return token, nil
}
