package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/msomdec/shopfront/internal/apiclient"
	"github.com/msomdec/shopfront/internal/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_LoginSendsCredentialsAndDecodesResponse(t *testing.T) {
	var gotCreds domain.Credentials
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotCreds)
		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]string{"id": "1", "email": "test@example.com", "name": "Test User"},
			"token": "mock-jwt-token",
		})
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL + "/api")
	resp, err := c.Login(context.Background(), domain.Credentials{Email: "test@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if gotContentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", gotContentType)
	}
	if gotCreds.Email != "test@example.com" || gotCreds.Password != "password123" {
		t.Fatalf("unexpected credentials sent: %+v", gotCreds)
	}
	if resp.Token != "mock-jwt-token" {
		t.Fatalf("expected token mock-jwt-token, got %q", resp.Token)
	}
	if resp.User.Name != "Test User" {
		t.Fatalf("expected user Test User, got %q", resp.User.Name)
	}
}

func TestClient_InjectsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.WithTokenSource(staticToken("abc")))
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected Bearer abc, got %q", gotAuth)
	}
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth = "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.WithTokenSource(staticToken("")))
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_ErrorMessageFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials","code":"invalid_credentials"}`))
	}))
	defer srv.Close()

	_, err := apiclient.New(srv.URL).Login(context.Background(), domain.Credentials{})
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apiclient.Error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Fatalf("expected message Invalid credentials, got %q", apiErr.Message)
	}
	if apiErr.Code != "invalid_credentials" {
		t.Fatalf("expected code invalid_credentials, got %q", apiErr.Code)
	}
}

func TestClient_ErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := apiclient.New(srv.URL).Get(context.Background(), "/anything", nil)
	if err == nil || err.Error() != apiclient.DefaultErrorMessage {
		t.Fatalf("expected fallback message, got %v", err)
	}
}

func TestClient_ContextCancellationAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := apiclient.New(srv.URL).Get(ctx, "/slow", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestClient_Me(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"user":{"id":"7","email":"me@example.com","name":"Me"}}`))
	}))
	defer srv.Close()

	user, err := apiclient.New(srv.URL, apiclient.WithTokenSource(staticToken("tok"))).Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != "7" || user.Name != "Me" {
		t.Fatalf("unexpected user %+v", user)
	}
}
