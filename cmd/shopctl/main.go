// Command shopctl is an interactive storefront client: sign in, fill a
// cart and switch themes against the shopfront API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/msomdec/shopfront/internal/apiclient"
	"github.com/msomdec/shopfront/internal/auth"
	"github.com/msomdec/shopfront/internal/cart"
	"github.com/msomdec/shopfront/internal/config"
	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/session"
	"github.com/msomdec/shopfront/internal/shell"
	"github.com/msomdec/shopfront/internal/storage"
	"github.com/msomdec/shopfront/internal/theme"
)

func main() {
	if err := run(); err != nil {
		slog.Error("shopctl failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := storage.Open(ctx, storage.Config{
		Driver:    cfg.Storage,
		Path:      cfg.StoragePath,
		RedisAddr: cfg.RedisAddr,
		KeyPrefix: cfg.KeyPrefix,
	})
	if err != nil {
		return err
	}
	defer closeKV()
	logger.Debug("storage ready", "driver", cfg.Storage)

	sess := session.New(ctx, kv, logger)
	client := apiclient.New(cfg.APIURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		apiclient.WithTokenSource(sess),
	)
	ctrl := auth.NewController(client, sess, logger)
	if err := ctrl.Restore(ctx); err != nil {
		logger.Warn("restore session", "error", err)
	}
	ctx = auth.NewContext(ctx, ctrl)

	themes := theme.New(ctx, kv, logger, theme.WithApplier(func(t domain.Theme) {
		logger.Debug("theme applied", "theme", t)
	}))

	sh := shell.New(cart.New(), themes, os.Stdout, logger)
	fmt.Fprintln(os.Stdout, "shopctl: type help for commands")
	if err := sh.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
