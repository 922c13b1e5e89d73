package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/reload-agent-demo/authflow"
	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/rs/zerolog/log"
)

// newFlow builds the per request flow over the browser's cookies. Tokens are
// exchanged in process so the secret stays on the server.
func (s *Server) newFlow(sess *browserSession) *authflow.Flow {
	return authflow.NewFlow(s.clientConfig(), sess.pending, sess.store, authflow.ExchangerFunc(s.proxy.RequestToken))
}

type permissionOption struct {
	Name    reload.Permission
	Granted bool
}

// IndexHandler renders the connect page, or the session summary when connected
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.openSession(r)
		flow := s.newFlow(sess)
		data, connected := flow.Session()
		if err := sess.commit(w); err != nil {
			log.Error().Err(err).Msg("[IndexHandler] commit failed")
		}

		options := make([]permissionOption, 0, len(reload.AllPermissions))
		for _, p := range reload.AllPermissions {
			options = append(options, permissionOption{Name: p, Granted: connected && data.Permissions.Has(p)})
		}

		view := map[string]any{
			"AppName":     s.config.GetAppName(),
			"Connected":   connected,
			"State":       flow.State().String(),
			"Session":     newSessionView(data),
			"Permissions": options,
			"Error":       r.URL.Query().Get("error"),
		}
		renderTemplate(w, tmpl, http.StatusOK, view)
	}
}

// ConnectHandler starts an authorization for the permissions in the query.
// Without any permission parameters every permission is requested; the index
// form always sends "form" so an empty selection there is reported.
func (s *Server) ConnectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		selection := reload.DefaultSelection()
		if query.Has("permission") || query.Has("form") {
			selection = reload.SelectionFrom(query["permission"]...)
		}

		sess := s.openSession(r)
		authURL, err := s.newFlow(sess).Begin(selection)
		if err != nil {
			log.Warn().Err(err).Msg("[ConnectHandler] unable to start authorization")
			redirectWithError(w, r, RouteIndex, err.Error())
			return
		}
		if err := sess.commit(w); err != nil {
			log.Error().Err(err).Msg("[ConnectHandler] commit failed")
			redirectWithError(w, r, RouteIndex, "Unable to start authorization")
			return
		}
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	}
}

// CallbackHandler completes the authorization started by ConnectHandler
func (s *Server) CallbackHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("callback.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.openSession(r)
		_, err := s.newFlow(sess).HandleCallback(r.Context(), r.URL.Query())
		if commitErr := sess.commit(w); commitErr != nil {
			log.Error().Err(commitErr).Msg("[CallbackHandler] commit failed")
			if err == nil {
				err = commitErr
			}
		}

		if err != nil {
			log.Warn().Err(err).Msg("[CallbackHandler] authorization failed")
			renderTemplate(w, tmpl, callbackStatus(err), map[string]any{
				"AppName": s.config.GetAppName(),
				"Title":   callbackTitle(err),
				"Reason":  err.Error(),
			})
			return
		}
		redirectSuccess(w, r, RouteIndex)
	}
}

func callbackStatus(err error) int {
	switch {
	case errors.Is(err, errors.ErrServerMisconfigured), errors.Is(err, errors.ErrInternalProxy):
		return http.StatusInternalServerError
	case errors.Is(err, errors.ErrTokenExchangeFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func callbackTitle(err error) string {
	switch {
	case errors.Is(err, errors.ErrAuthorizationDenied):
		return "Authorization was denied"
	case errors.Is(err, errors.ErrStateMismatch):
		return "Security check failed"
	case errors.Is(err, errors.ErrNoAuthorizationCode):
		return "No authorization code received"
	default:
		return "Connection failed"
	}
}

func (s *Server) DisconnectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.openSession(r)
		if err := s.newFlow(sess).Disconnect(); err != nil {
			log.Error().Err(err).Msg("[DisconnectHandler] disconnect failed")
		}
		if err := sess.commit(w); err != nil {
			log.Error().Err(err).Msg("[DisconnectHandler] commit failed")
		}
		redirectSuccess(w, r, RouteIndex)
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(errorMsg), http.StatusSeeOther)
}
