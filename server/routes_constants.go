package server

// Route path constants
const (
	// Server rendered connect flow
	RouteIndex      = "/"
	RouteConnect    = "/connect"
	RouteCallback   = "/callback"
	RouteDisconnect = "/disconnect"

	// Proxy Routes
	RouteAPIToken  = "/api/auth/token"
	RouteAPIAgent  = "/api/ai-agent/{path...}"
	RouteAPIReload = "/api/reload"

	// API Routes
	RouteAPIWebhooks = "/api/webhooks"
	RouteAPIConfig   = "/api/config"
	RouteAPISession  = "/api/session"

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealthz = "/healthz"
)
