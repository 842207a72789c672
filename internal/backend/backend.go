// Package backend assembles the mock storefront API server: database,
// services and the HTTP handler chain.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/msomdec/shopfront/internal/handler"
	"github.com/msomdec/shopfront/internal/metrics"
	"github.com/msomdec/shopfront/internal/repository/sqlite"
	"github.com/msomdec/shopfront/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Demo account seeded on every start.
const (
	DemoEmail    = "test@example.com"
	DemoName     = "Test User"
	DemoPassword = "password123"
)

// Config controls how the backend is built.
type Config struct {
	DatabasePath       string
	JWTSecret          string
	BcryptCost         int
	LoginRatePerMinute int // 0 disables login rate limiting
	SkipDemoAccount    bool
}

// Backend owns the resources behind the mock API.
type Backend struct {
	DB       *sqlite.DB
	Auth     *service.AuthService
	Registry *prometheus.Registry
	Handler  http.Handler

	limiter *service.TokenBucket
}

// New opens and migrates the database, seeds the demo account and builds
// the handler chain. The caller must Close the returned Backend.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Backend, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	auth := service.NewAuthService(db.Accounts(), cfg.JWTSecret, cfg.BcryptCost)
	if !cfg.SkipDemoAccount {
		if _, err := auth.SeedAccount(ctx, DemoEmail, DemoName, DemoPassword); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed demo account: %w", err)
		}
		logger.Info("demo account ready", "email", DemoEmail)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	b := &Backend{
		DB:       db,
		Auth:     auth,
		Registry: reg,
	}
	if cfg.LoginRatePerMinute > 0 {
		b.limiter = service.PerMinute(cfg.LoginRatePerMinute)
	}

	b.Handler = handler.NewServer(handler.Services{
		Auth:         auth,
		LoginLimiter: b.limiter,
		Metrics:      metrics.NewCollector(reg),
		Gatherer:     reg,
	}, logger)
	return b, nil
}

// Close stops the rate limiter and closes the database.
func (b *Backend) Close() error {
	if b.limiter != nil {
		b.limiter.Close()
	}
	return b.DB.Close()
}
