package auth_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/shopfront/internal/apiclient"
	"github.com/msomdec/shopfront/internal/auth"
	"github.com/msomdec/shopfront/internal/backend"
	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/session"
	"github.com/msomdec/shopfront/internal/storage"
)

// newLiveServer starts the mock backend and returns its API base URL.
func newLiveServer(t *testing.T) string {
	t.Helper()
	b, err := backend.New(context.Background(), backend.Config{
		DatabasePath: filepath.Join(t.TempDir(), "backend.db"),
		JWTSecret:    "test-secret-for-auth-integration",
		BcryptCost:   4,
	}, quietLogger())
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	t.Cleanup(func() { b.Close() })

	srv := httptest.NewServer(b.Handler)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func controllerFor(baseURL string, kv domain.KeyValueStore) *auth.Controller {
	sess := session.New(context.Background(), kv, quietLogger())
	client := apiclient.New(baseURL, apiclient.WithTokenSource(sess))
	return auth.NewController(client, sess, quietLogger())
}

func newLiveController(t *testing.T, kv domain.KeyValueStore) *auth.Controller {
	t.Helper()
	return controllerFor(newLiveServer(t), kv)
}

func TestLive_LoginWithDemoAccount(t *testing.T) {
	c := newLiveController(t, storage.NewMemoryStore())

	err := c.Login(context.Background(), domain.Credentials{Email: "test@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !c.Session().IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if u := c.Session().User(); u == nil || u.Name != "Test User" {
		t.Fatalf("expected Test User, got %+v", u)
	}
}

func TestLive_LoginWithWrongCredentials(t *testing.T) {
	c := newLiveController(t, storage.NewMemoryStore())

	err := c.Login(context.Background(), domain.Credentials{Email: "wrong@example.com", Password: "wrongpassword"})
	if err == nil {
		t.Fatal("expected error")
	}
	if c.Session().IsAuthenticated() {
		t.Fatal("expected unauthenticated session")
	}
	if !strings.Contains(strings.ToLower(c.Error()), "invalid credentials") {
		t.Fatalf("expected message containing 'invalid credentials', got %q", c.Error())
	}
}

func TestLive_LogoutRemovesPersistedToken(t *testing.T) {
	kv := storage.NewMemoryStore()
	c := newLiveController(t, kv)
	ctx := context.Background()

	if err := c.Login(ctx, domain.Credentials{Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	c.Logout(ctx)

	if c.Session().IsAuthenticated() {
		t.Fatal("expected session cleared")
	}
	if _, ok, _ := kv.Get(ctx, domain.KeyAuthToken); ok {
		t.Fatal("expected auth_token removed from storage")
	}
}

func TestLive_RestoreFetchesProfile(t *testing.T) {
	baseURL := newLiveServer(t)
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	first := controllerFor(baseURL, kv)
	if err := first.Login(ctx, domain.Credentials{Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A restart that lost the stored profile.
	kv.Remove(ctx, domain.KeyUser)
	restarted := controllerFor(baseURL, kv)
	if !restarted.Session().NeedsProfile() {
		t.Fatal("expected rehydrated session to need a profile")
	}

	if err := restarted.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if u := restarted.Session().User(); u == nil || u.Email != "test@example.com" {
		t.Fatalf("expected restored profile, got %+v", u)
	}
}

func TestLive_RestoreClearsRejectedToken(t *testing.T) {
	baseURL := newLiveServer(t)
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	kv.Set(ctx, domain.KeyAuthToken, "not-a-valid-token")

	c := controllerFor(baseURL, kv)
	if err := c.Restore(ctx); err == nil {
		t.Fatal("expected error for rejected token")
	}
	if c.Session().IsAuthenticated() {
		t.Fatal("expected rejected token cleared")
	}
	if _, ok, _ := kv.Get(ctx, domain.KeyAuthToken); ok {
		t.Fatal("expected rejected token removed from storage")
	}
}
