package handler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msomdec/shopfront/internal/handler"
)

func loginToken(t *testing.T, svc handler.Services) string {
	t.Helper()
	_, token, err := svc.Auth.Login(context.Background(), "test@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return token
}

func TestRequireAuth_BearerToken(t *testing.T) {
	svc := newTestServices(t)
	token := loginToken(t, svc)

	var gotName string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if account := handler.AccountFromContext(r.Context()); account != nil {
			gotName = account.Name
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.RequireAuth(svc.Auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotName != "Test User" {
		t.Fatalf("expected account 'Test User', got %q", gotName)
	}
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	svc := newTestServices(t)
	token := loginToken(t, svc)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(svc.Auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	svc := newTestServices(t)
	token := loginToken(t, svc)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer invalid.jwt.token"},
		{"tampered", "Bearer " + token + "tampered"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("inner handler should not be called")
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.RequireAuth(svc.Auth, inner).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestOptionalAuth_PassesThroughAnonymous(t *testing.T) {
	svc := newTestServices(t)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if handler.AccountFromContext(r.Context()) != nil {
			t.Fatal("expected no account for anonymous request")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.OptionalAuth(svc.Auth, inner).ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("expected inner handler to be called")
	}
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var seenID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = handler.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()

	handler.RequestLogger(logger, nil, inner).ServeHTTP(w, req)

	if seenID != "req-123" {
		t.Fatalf("expected request id req-123 in context, got %q", seenID)
	}
	if w.Header().Get("X-Request-ID") != "req-123" {
		t.Fatal("expected request id echoed in response")
	}
	out := logs.String()
	if !strings.Contains(out, "status=418") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("expected warn-level log with status, got %q", out)
	}
}
