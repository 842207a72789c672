package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/shopfront/internal/metrics"
	"github.com/msomdec/shopfront/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// Services bundles what the routes depend on. LoginLimiter, Metrics and
// Gatherer are optional.
type Services struct {
	Auth         *service.AuthService
	LoginLimiter *service.TokenBucket
	Metrics      *metrics.Collector
	Gatherer     prometheus.Gatherer
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.LoginLimiter, svc.Metrics)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /", OptionalAuth(svc.Auth, http.HandlerFunc(HandleHome)))

	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.Handle("POST /api/auth/logout", OptionalAuth(svc.Auth, http.HandlerFunc(authHandler.HandleLogout)))
	mux.Handle("GET /api/auth/me", RequireAuth(svc.Auth, http.HandlerFunc(authHandler.HandleMe)))

	if svc.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(svc.Gatherer))
	}
}

// NewServer returns the full handler chain: routes wrapped in request
// logging and security headers.
func NewServer(svc Services, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)
	return SecurityHeaders(RequestLogger(logger, svc.Metrics, mux))
}
