package upstream

import (
	"context"
	"net/http"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
)

// Credentials is the identity plus bearer credential issued by the auth API.
type Credentials struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// AuthClient calls the platform auth endpoints.
type AuthClient struct {
	*Client
}

// NewAuthClient creates an auth API client.
func NewAuthClient(base *Client) *AuthClient {
	return &AuthClient{Client: base}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns its credentials.
func (c *AuthClient) Register(ctx context.Context, name, email, password string) (*Credentials, error) {
	var creds Credentials
	req := registerRequest{Name: name, Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/auth/register", "", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Login authenticates an account and returns its credentials.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	req := loginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
