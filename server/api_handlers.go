package server

import (
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/reload-agent-demo/authflow"
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/proxy"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/jrsteele09/reload-agent-demo/sessions"
	"github.com/rs/zerolog/log"
)

const (
	accessTokenHeader  = "X-Access-Token"
	maxRequestBodySize = 1 << 20
)

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		return nil, errors.Wrapf(err, "[readBody] reading request body")
	}
	return body, nil
}

// TokenExchangeHandler trades {code, codeVerifier} for an access token using
// the confidential client credentials.
func (s *Server) TokenExchangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")

		body, err := readBody(w, r)
		if err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		writeResult(w, s.proxy.ExchangeToken(r.Context(), body))
	}
}

// AgentProxyHandler forwards /api/ai-agent/{path...} to the Reload AI-agent
// API. The user token comes from X-Access-Token, falling back to the signed
// session cookie of the server rendered flow.
func (s *Server) AgentProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		accessToken := r.Header.Get(accessTokenHeader)
		if accessToken == "" {
			accessToken = s.sessionAccessToken(r)
		}

		result := s.proxy.Forward(r.Context(), proxy.Request{
			Method:      r.Method,
			Path:        "/" + r.PathValue("path"),
			RawQuery:    r.URL.RawQuery,
			Body:        body,
			AccessToken: accessToken,
		})
		writeResult(w, result)
	}
}

func (s *Server) sessionAccessToken(r *http.Request) string {
	storage := s.loadCookieStorage(r, sessionCookieName, s.config.GetSessionMaxAge(), true)
	data, ok := sessions.NewStore(storage).Restore()
	if !ok {
		return ""
	}
	return data.AccessToken
}

// LegacyProxyHandler serves /api/reload?endpoint=..., passing the caller's
// Authorization header straight through.
func (s *Server) LegacyProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		writeResult(w, s.proxy.ForwardLegacy(r.Context(), proxy.LegacyRequest{
			Method:        r.Method,
			Endpoint:      r.URL.Query().Get("endpoint"),
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		}))
	}
}

type publicConfig struct {
	authflow.ClientConfig
	Permissions []reload.Permission `json:"permissions"`
	Configured  bool                `json:"configured"`
}

// ConfigHandler returns what the browser needs to start an authorization.
// The client secret is never part of it.
func (s *Server) ConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, publicConfig{
			ClientConfig: s.clientConfig(),
			Permissions:  reload.AllPermissions,
			Configured:   s.config.GetClientID() != "" && s.config.GetClientSecret() != "" && s.config.GetAPIBaseURL() != "",
		})
	}
}

type sessionView struct {
	Authenticated    bool               `json:"authenticated"`
	TokenType        string             `json:"tokenType,omitempty"`
	Scope            string             `json:"scope,omitempty"`
	Environment      string             `json:"environment,omitempty"`
	Organization     map[string]any     `json:"organization,omitempty"`
	User             map[string]any     `json:"user,omitempty"`
	Permissions      reload.Permissions `json:"permissions,omitempty"`
	BillingAccountID string             `json:"billingAccountId,omitempty"`
	ConnectedAt      *time.Time         `json:"connectedAt,omitempty"`
	ExpiresAt        *time.Time         `json:"expiresAt,omitempty"`
}

func newSessionView(data *sessions.AuthData) sessionView {
	if data == nil {
		return sessionView{}
	}
	view := sessionView{
		Authenticated:    true,
		TokenType:        data.TokenType,
		Scope:            data.Scope,
		Environment:      data.Environment,
		Organization:     data.Organization,
		User:             data.User,
		Permissions:      data.Permissions,
		BillingAccountID: data.BillingAccountID,
		ConnectedAt:      &data.ConnectedAt,
	}
	if expiresAt, ok := data.ExpiresAt(); ok {
		view.ExpiresAt = &expiresAt
	}
	return view
}

// SessionHandler describes the cookie session without revealing the token
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.openSession(r)
		data, _ := sess.store.Restore()
		if err := sess.commit(w); err != nil {
			log.Error().Err(err).Msg("[SessionHandler] commit failed")
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, newSessionView(data))
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
