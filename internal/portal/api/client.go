// Package api is the HTTP client for the remote authentication service. It
// is the only place the service's wire shapes are visible: every success is
// normalized into typed results and every rejection into an AuthError before
// anything leaves this package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the remote-service surface consumed by the session layer.
type Client interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (*Credentials, error)
	CurrentUser(ctx context.Context, token string) (*User, error)
	UpdateLanguage(ctx context.Context, token, language string) (string, error)
	RefreshToken(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error
	VerifyEmail(ctx context.Context, verifyToken string) error
	ResendVerification(ctx context.Context, token string) error
}

// HTTPClient implements Client over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the service at baseURL. The timeout
// applies per request; a timeout surfaces to callers as an AuthError like
// any other request failure.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}

	env, err := c.post(ctx, "/auth/login", "", body)
	if err != nil {
		return nil, err
	}

	// combined shape: {success, data: {user, token}}
	if env.Data != nil && env.Data.Token != "" && env.Data.User != nil {
		return &Credentials{User: normalizeUser(env.Data.User), Token: env.Data.Token}, nil
	}

	// bare shape: {token}; the user record requires a follow-up fetch
	if env.Token != "" {
		user, err := c.CurrentUser(ctx, env.Token)
		if err != nil {
			return nil, err
		}
		return &Credentials{User: user, Token: env.Token}, nil
	}

	return nil, NewAuthError(env.displayMessage(), nil)
}

func (c *HTTPClient) Register(ctx context.Context, email, password, firstName, lastName string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	if firstName != "" {
		body["firstName"] = firstName
	}
	if lastName != "" {
		body["lastName"] = lastName
	}

	env, err := c.post(ctx, "/auth/register", "", body)
	if err != nil {
		return nil, err
	}

	if env.Data != nil && env.Data.Token != "" && env.Data.User != nil {
		return &Credentials{User: normalizeUser(env.Data.User), Token: env.Data.Token}, nil
	}
	if env.Token != "" {
		user, err := c.CurrentUser(ctx, env.Token)
		if err != nil {
			return nil, err
		}
		return &Credentials{User: user, Token: env.Token}, nil
	}

	return nil, NewAuthError(env.displayMessage(), nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*User, error) {
	env, err := c.get(ctx, "/auth/me", token)
	if err != nil {
		return nil, err
	}
	if env.Data == nil || env.Data.User == nil {
		return nil, NewAuthError(env.displayMessage(), nil)
	}
	return normalizeUser(env.Data.User), nil
}

func (c *HTTPClient) UpdateLanguage(ctx context.Context, token, language string) (string, error) {
	env, err := c.post(ctx, "/auth/update-language", token, map[string]string{"language": language})
	if err != nil {
		return "", err
	}
	if env.Data != nil && env.Data.PreferredLanguage != "" {
		return env.Data.PreferredLanguage, nil
	}
	return language, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, token string) (string, error) {
	env, err := c.post(ctx, "/auth/refresh", token, struct{}{})
	if err != nil {
		return "", err
	}
	if env.Data == nil || env.Data.Token == "" {
		return "", NewAuthError(env.displayMessage(), nil)
	}
	return env.Data.Token, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/auth/forgot-password", "", map[string]string{"email": email})
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	_, err := c.post(ctx, "/auth/reset-password", "", map[string]string{
		"token":    resetToken,
		"password": newPassword,
	})
	return err
}

func (c *HTTPClient) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	_, err := c.post(ctx, "/auth/change-password", token, map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	})
	return err
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, verifyToken string) error {
	_, err := c.post(ctx, "/auth/verify-email", "", map[string]string{"token": verifyToken})
	return err
}

func (c *HTTPClient) ResendVerification(ctx context.Context, token string) error {
	_, err := c.post(ctx, "/auth/resend-verification", token, struct{}{})
	return err
}

func (c *HTTPClient) post(ctx context.Context, path, token string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewAuthError("", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, NewAuthError("", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c *HTTPClient) get(ctx context.Context, path, token string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, NewAuthError("", err)
	}
	return c.do(req, token)
}

// do executes the request and normalizes the outcome: any transport error,
// non-2xx status, or success:false body becomes an AuthError carrying the
// server's message when one was supplied.
func (c *HTTPClient) do(req *http.Request, token string) (*envelope, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, NewAuthError("", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewAuthError("", err)
	}

	var env envelope
	if len(raw) > 0 {
		// a body that does not decode is treated as absent; the status
		// code still decides the outcome
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewAuthError(env.displayMessage(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if !env.succeeded() {
		return nil, NewAuthError(env.displayMessage(), nil)
	}
	return &env, nil
}

// normalizeUser guarantees the roles container is present even when the
// service omits it.
func normalizeUser(u *User) *User {
	c := u.Clone()
	if c.Roles == nil {
		c.Roles = []string{}
	}
	return c
}
