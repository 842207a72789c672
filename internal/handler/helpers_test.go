package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/shopfront/internal/handler"
	"github.com/msomdec/shopfront/internal/metrics"
	"github.com/msomdec/shopfront/internal/repository/sqlite"
	"github.com/msomdec/shopfront/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

const testJWTSecret = "test-secret-for-handler-tests"

func newTestServices(t *testing.T) handler.Services {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db.Accounts(), testJWTSecret, 4)
	if _, err := auth.SeedAccount(context.Background(), "test@example.com", "Test User", "password123"); err != nil {
		t.Fatalf("SeedAccount: %v", err)
	}

	reg := prometheus.NewRegistry()
	return handler.Services{
		Auth:     auth,
		Metrics:  metrics.NewCollector(reg),
		Gatherer: reg,
	}
}

func newTestServer(t *testing.T, svc handler.Services) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(handler.NewServer(svc, logger))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
