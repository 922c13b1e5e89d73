package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/reload-agent-demo/sessions"
	"github.com/jrsteele09/reload-agent-demo/token"
	"github.com/rs/zerolog/log"
)

const (
	pendingCookieName = "reload_pending"
	sessionCookieName = "reload_session"
)

// cookieStorage is a sessions.Storage held in one signed cookie. Changes are
// buffered and written by commit, which must run before the response body.
type cookieStorage struct {
	name       string
	codec      *token.Codec
	ttl        time.Duration
	persistent bool
	secure     bool

	values map[string]string
	dirty  bool
}

var _ sessions.Storage = (*cookieStorage)(nil)

// loadCookieStorage reads name from the request. A missing, expired or
// tampered cookie yields an empty storage that clears the cookie on commit.
func (s *Server) loadCookieStorage(r *http.Request, name string, ttl time.Duration, persistent bool) *cookieStorage {
	c := &cookieStorage{
		name:       name,
		codec:      s.cookies,
		ttl:        ttl,
		persistent: persistent,
		secure:     s.config.GetSecureCookies() || getScheme(r) == "https",
		values:     map[string]string{},
	}

	cookie, err := r.Cookie(name)
	if err != nil {
		return c
	}
	values, err := s.cookies.Decode(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Str("cookie", name).Msg("[loadCookieStorage] discarding cookie")
		c.dirty = true
		return c
	}
	c.values = values
	return c
}

func (c *cookieStorage) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *cookieStorage) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("[cookieStorage Set] empty key")
	}
	c.values[key] = value
	c.dirty = true
	return nil
}

func (c *cookieStorage) Remove(key string) error {
	if _, ok := c.values[key]; ok {
		delete(c.values, key)
		c.dirty = true
	}
	return nil
}

func (c *cookieStorage) commit(w http.ResponseWriter) error {
	if !c.dirty {
		return nil
	}
	c.dirty = false

	cookie := &http.Cookie{
		Name:     c.name,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}

	if len(c.values) == 0 {
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
		return nil
	}

	value, err := c.codec.Encode(c.values, c.ttl)
	if err != nil {
		return fmt.Errorf("[cookieStorage commit] encode %s: %w", c.name, err)
	}
	cookie.Value = value
	if c.persistent {
		cookie.MaxAge = int(c.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// browserSession is the per request view of the two cookies
type browserSession struct {
	pending *cookieStorage
	durable *cookieStorage
	store   *sessions.Store
}

func (s *Server) openSession(r *http.Request) *browserSession {
	durable := s.loadCookieStorage(r, sessionCookieName, s.config.GetSessionMaxAge(), true)
	return &browserSession{
		pending: s.loadCookieStorage(r, pendingCookieName, s.config.GetPendingAuthMaxAge(), false),
		durable: durable,
		store:   sessions.NewStore(durable),
	}
}

func (b *browserSession) commit(w http.ResponseWriter) error {
	if err := b.pending.commit(w); err != nil {
		return err
	}
	return b.durable.commit(w)
}
