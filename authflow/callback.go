package authflow

import (
	"net/url"

	"github.com/jrsteele09/reload-agent-demo/internal/errors"
	"github.com/jrsteele09/reload-agent-demo/oauth2"
)

// Callback is the authorization response read from the redirect URI's query.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// ParseCallback reads the authorization response. A denial or a missing code
// is returned as a *errors.FlowError whose Reason is fit to show the user.
func ParseCallback(query url.Values) (Callback, error) {
	cb := Callback{
		Code:             query.Get(oauth2.ParamCode),
		State:            query.Get(oauth2.ParamState),
		Error:            query.Get(oauth2.ParamError),
		ErrorDescription: query.Get(oauth2.ParamErrorDescription),
	}

	if cb.Error != "" {
		reason := cb.ErrorDescription
		if reason == "" {
			reason = cb.Error
		}
		return cb, errors.NewFlowError(errors.ErrAuthorizationDenied, reason)
	}
	if cb.Code == "" {
		return cb, errors.NewFlowError(errors.ErrNoAuthorizationCode, "")
	}
	return cb, nil
}
