package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/streambuddy/cli/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Login exchanges credentials for an identity and token.
func (c *Client) Login(ctx context.Context, email, password string) (models.Credentials, error) {
	return c.authenticate(ctx, "/api/auth/login/", loginRequest{Email: email, Password: password})
}

// Register creates an account and returns the issued identity and token.
// The confirmation password is forwarded so the backend can run its own check.
func (c *Client) Register(ctx context.Context, email, password, confirm string) (models.Credentials, error) {
	return c.authenticate(ctx, "/api/auth/registration/", registerRequest{
		Email:     email,
		Password:  password,
		Password2: confirm,
	})
}

// Logout invalidates the current token server-side. Callers treat the result
// as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout/", nil, "", nil)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (models.Credentials, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("encode auth payload: %w", err)
	}

	var creds models.Credentials
	if err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", &creds); err != nil {
		return models.Credentials{}, err
	}
	return creds, nil
}
