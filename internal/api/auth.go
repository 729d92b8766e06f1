package api

import (
	"context"
	"errors"

	"github.com/AnandhuAsokan/salon-frontend/internal/models"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login endpoints.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// SignupRequest is the body for POST /admin/signup. ConfirmPassword never
// leaves the client; it is validated before any request is made.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate runs the pre-request checks. A failing request is never sent.
func (r *SignupRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return errors.New("All fields are required.")
	}
	if r.Password != r.ConfirmPassword {
		return errors.New("Passwords do not match.")
	}
	if len(r.Password) < 6 {
		return errors.New("Password must be at least 6 characters long.")
	}
	return nil
}

// Login authenticates a customer.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminLogin authenticates an administrator.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/admin/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminSignup registers an administrator account. Validation errors are
// returned before any network call.
func (c *Client) AdminSignup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp AuthResponse
	if err := c.doJSON(ctx, "POST", "/admin/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
