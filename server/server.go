// Package server exposes the Reload demo over HTTP: the confidential token and
// API proxies, the webhook receiver, and a server rendered connect flow backed
// by signed cookies.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/reload-agent-demo/authflow"
	"github.com/jrsteele09/reload-agent-demo/internal/config"
	"github.com/jrsteele09/reload-agent-demo/proxy"
	"github.com/jrsteele09/reload-agent-demo/token"
	"github.com/jrsteele09/reload-agent-demo/webhooks"
	"github.com/rs/zerolog/log"
)

const cookieIssuer = "reload-agent-demo"

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	proxy    *proxy.Client
	webhooks *webhooks.Receiver
	metrics  *Metrics
	cookies  *token.Codec
}

type Option func(*serverOptions)

type serverOptions struct {
	httpClient *http.Client
	metrics    *Metrics
}

// WithHTTPClient sets the client used for upstream Reload calls
func WithHTTPClient(c *http.Client) Option {
	return func(o *serverOptions) {
		o.httpClient = c
	}
}

// WithMetrics replaces the default metrics registry
func WithMetrics(m *Metrics) Option {
	return func(o *serverOptions) {
		o.metrics = m
	}
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.metrics == nil {
		options.metrics = NewMetrics()
	}

	if cfg.GetSessionSecret() == "" {
		log.Warn().Msg("[Server New] SESSION_SECRET not set, cookies will not survive a restart")
	}
	signer, err := token.NewHMACSigner(cfg.GetSessionSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create cookie signer: %w", err)
	}

	proxyOpts := []proxy.Option{proxy.WithMetrics(options.metrics)}
	if options.httpClient != nil {
		proxyOpts = append(proxyOpts, proxy.WithHTTPClient(options.httpClient))
	}

	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		proxy:   proxy.New(cfg, proxyOpts...),
		metrics: options.metrics,
		cookies: token.NewCodec(signer, cookieIssuer),
		webhooks: webhooks.NewReceiver(
			webhooks.NewVerifier(cfg.GetWebhookSecret()),
			webhooks.DefaultRetention,
			webhooks.WithMetrics(options.metrics),
		),
	}

	if cfg.GetClientID() == "" || cfg.GetClientSecret() == "" || cfg.GetAPIBaseURL() == "" {
		log.Warn().Msg("[Server New] Reload client credentials incomplete, proxy endpoints will answer 500")
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// Start launches background housekeeping until Close is called
func (s *Server) Start() {
	s.webhooks.Start()
}

func (s *Server) Close() {
	s.webhooks.Stop()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// clientConfig is the browser-visible half of the client registration
func (s *Server) clientConfig() authflow.ClientConfig {
	return authflow.ClientConfig{
		ClientID:     s.config.GetClientID(),
		RedirectURI:  s.config.GetRedirectURI(),
		AuthorizeURL: s.config.GetOAuthAuthorizeURL(),
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
