package apiclient

import (
	"context"

	"github.com/msomdec/shopfront/internal/domain"
)

// Login exchanges credentials for a user and token.
// POST /auth/login
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.Post(ctx, "/auth/login", creds, &resp)
	return resp, err
}

// Register creates an account and signs it in.
// POST /auth/register
func (c *Client) Register(ctx context.Context, data domain.RegisterData) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.Post(ctx, "/auth/register", data, &resp)
	return resp, err
}

// Logout ends the server-side session. The response body is ignored.
// POST /auth/logout
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}

// Me fetches the profile behind the current token.
// GET /auth/me
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	err := c.Get(ctx, "/auth/me", &resp)
	return resp.User, err
}
