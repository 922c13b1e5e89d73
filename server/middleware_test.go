package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverMiddleware(t *testing.T) {
	s := &Server{}
	handler := ChainMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, s.RequestIDMiddleware, s.RecoverMiddleware)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal server error","status":500}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDMiddleware_KeepsIncoming(t *testing.T) {
	s := &Server{}
	var seen string
	handler := s.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		seen = requestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, "req-1", seen)
	require.Equal(t, "req-1", rec.Header().Get(requestIDHeader))
}
