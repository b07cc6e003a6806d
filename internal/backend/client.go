package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"santri_portal/internal/model"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

const maxBodySize = 1 << 20

// AuthResult is a successful login or OTP verification
type AuthResult struct {
	Token   string
	Profile model.Profile
}

// UserID returns the backend identifier of the authenticated user
func (r *AuthResult) UserID() string {
	return r.Profile.ID
}

// Client talks to the external portal backend
type Client interface {
	Login(ctx context.Context, phone, password string) (*AuthResult, error)
	VerifyOTP(ctx context.Context, phone, otp string) (*AuthResult, error)
	ResendOTP(ctx context.Context, phone string) error
	Profile(ctx context.Context, token string) (model.Profile, error)
}

// Config configures a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint
	HTTPClient *http.Client
	// NewBackOff returns the retry schedule for one call; defaults to exponential
	NewBackOff func() backoff.BackOff
}

type client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint
	newBackOff func() backoff.BackOff
}

// New creates a backend Client
func New(cfg Config) Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	newBackOff := cfg.NewBackOff
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}

	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       httpClient,
		maxRetries: cfg.MaxRetries,
		newBackOff: newBackOff,
	}
}

type authResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

func (c *client) Login(ctx context.Context, phone, password string) (*AuthResult, error) {
	body := map[string]string{"nomor_hp": phone, "password": password}
	return c.authenticate(ctx, "/login", body)
}

func (c *client) VerifyOTP(ctx context.Context, phone, otp string) (*AuthResult, error) {
	body := map[string]string{"nomor_hp": phone, "otp": otp}
	return c.authenticate(ctx, "/verify-otp", body)
}

func (c *client) ResendOTP(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/resend-otp", "", map[string]string{"nomor_hp": phone}, nil)
}

// Profile reads the current user; the body is either {"user": {...}} or the user object itself
func (c *client) Profile(ctx context.Context, token string) (model.Profile, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/profile", token, nil, &raw); err != nil {
		return model.Profile{}, err
	}

	var wrapped authResponse
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.User) > 0 && string(wrapped.User) != "null" {
		raw = wrapped.User
	}

	profile, err := model.ParseProfile(raw)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return profile, nil
}

func (c *client) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: %s returned no token", ErrInvalidResponse, path)
	}

	profile, err := model.ParseProfile(resp.User)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, path, err)
	}

	return &AuthResult{Token: resp.Token, Profile: profile}, nil
}

// do sends one JSON request, retrying transport failures and 5xx answers
func (c *client) do(ctx context.Context, method, path, token string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	attempt := 0
	operation := func() (struct{}, error) {
		attempt++
		return struct{}{}, c.send(ctx, method, path, token, payload, out)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).
				Str("method", method).
				Str("path", path).
				Int("attempt", attempt).
				Dur("retry_in", next).
				Msg("backend request failed, retrying")
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		return err
	}
	return nil
}

func (c *client) send(ctx context.Context, method, path, token string, payload []byte, out any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		if apiErr.Temporary() {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
