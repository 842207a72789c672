// Package auth coordinates login, registration and logout requests with the
// session store and exposes loading and error state to callers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/msomdec/shopfront/internal/apiclient"
	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/session"
)

// API is the subset of the storefront API the controller calls.
type API interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error)
	Register(ctx context.Context, data domain.RegisterData) (domain.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (domain.User, error)
}

// State is the controller's request state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// Fallback messages for failures that carry no text of their own.
const (
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
)

// Controller drives the Idle -> Submitting -> Idle flow. Overlapping calls
// are not serialized; each runs to completion and the last one to finish
// decides the session.
type Controller struct {
	api     API
	session *session.Store
	logger  *slog.Logger

	mu       sync.Mutex
	inflight int
	errMsg   string
}

// NewController creates a Controller. A nil logger uses slog.Default().
func NewController(api API, sess *session.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: api, session: sess, logger: logger}
}

// Login submits credentials. On success the session is replaced; on failure
// the error message is recorded and the error returned.
func (c *Controller) Login(ctx context.Context, creds domain.Credentials) error {
	c.begin()
	resp, err := c.api.Login(ctx, creds)
	if err != nil {
		c.fail(err, MsgLoginFailed)
		return err
	}
	c.session.Set(ctx, resp.User, resp.Token)
	c.end()
	return nil
}

// Register creates an account and signs it in, with the same state
// handling as Login.
func (c *Controller) Register(ctx context.Context, data domain.RegisterData) error {
	c.begin()
	resp, err := c.api.Register(ctx, data)
	if err != nil {
		c.fail(err, MsgRegisterFailed)
		return err
	}
	c.session.Set(ctx, resp.User, resp.Token)
	c.end()
	return nil
}

// Logout asks the server to end the session and clears the local session
// only if that succeeds. A failed request is logged and the local session
// stays intact.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Error("logout failed", "error", err)
		return
	}
	c.session.Clear(ctx)
}

// Restore fills in the profile for a rehydrated token that has none. A
// token the server rejects is cleared.
func (c *Controller) Restore(ctx context.Context) error {
	if !c.session.NeedsProfile() {
		return nil
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			c.session.Clear(ctx)
			return fmt.Errorf("%w: stored token rejected", domain.ErrUnauthorized)
		}
		return fmt.Errorf("fetch profile: %w", err)
	}
	c.session.SetUser(ctx, user)
	return nil
}

// State reports whether a request is in flight.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight > 0 {
		return StateSubmitting
	}
	return StateIdle
}

// Loading is State() == StateSubmitting.
func (c *Controller) Loading() bool {
	return c.State() == StateSubmitting
}

// Error returns the message of the last failed request, or "".
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Session returns the store the controller writes to.
func (c *Controller) Session() *session.Store {
	return c.session
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.inflight++
	c.errMsg = ""
	c.mu.Unlock()
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

// fail records err's message. A request abandoned by its caller leaves no
// message behind.
func (c *Controller) fail(err error, fallback string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if errors.Is(err, context.Canceled) {
		return
	}
	c.errMsg = errorMessage(err, fallback)
}

func errorMessage(err error, fallback string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
