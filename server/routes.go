package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteConnect, ChainMiddleware(s.ConnectHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteDisconnect, ChainMiddleware(s.DisconnectHandler(), s.HTMLMiddleWare()...))

	// Token exchange
	s.RegisterRouteHandler("POST "+RouteAPIToken, ChainMiddleware(s.TokenExchangeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPIToken, ChainMiddleware(s.TokenExchangeHandler(), s.APIMiddleware()...))

	// Authenticated API proxy
	agent := ChainMiddleware(s.AgentProxyHandler(), s.APIMiddleware()...)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions} {
		s.RegisterRouteHandler(method+" "+RouteAPIAgent, agent)
	}

	// Legacy query parameter proxy
	legacy := ChainMiddleware(s.LegacyProxyHandler(), s.APIMiddleware()...)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodOptions} {
		s.RegisterRouteHandler(method+" "+RouteAPIReload, legacy)
	}

	// Webhooks answer every method; unsupported ones get a JSON 405
	s.RegisterRouteHandler(RouteAPIWebhooks, ChainMiddleware(s.WebhookHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteAPIConfig, ChainMiddleware(s.ConfigHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthHandler())
}
