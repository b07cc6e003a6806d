package service

import (
	"context"
	"errors"
	"fmt"

	"santri_portal/internal/backend"
	"santri_portal/internal/session"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCredentials    = errors.New("invalid phone or password")
	ErrInvalidOTP            = errors.New("invalid or expired OTP")
	ErrRejected              = errors.New("request rejected by backend")
	ErrBackendUnavailable    = errors.New("backend unavailable")
	ErrIncompleteCredentials = errors.New("backend returned no token or user id")
	ErrNotAuthenticated      = errors.New("not logged in")
)

// AuthService exchanges credentials with the backend and starts the gateway session
type AuthService interface {
	Login(ctx context.Context, w session.CookieWriter, phone, password string) (session.State, error)
	VerifyOTP(ctx context.Context, w session.CookieWriter, phone, otp string) (session.State, error)
	ResendOTP(ctx context.Context, phone string) error
	Logout(ctx context.Context, w session.CookieWriter)
}

type authService struct {
	backend backend.Client
	session session.AuthSession
}

// NewAuthService creates a new AuthService
func NewAuthService(client backend.Client, sess session.AuthSession) AuthService {
	return &authService{
		backend: client,
		session: sess,
	}
}

// Login authenticates against the backend. The returned state has Verify 0 until the OTP is confirmed.
func (s *authService) Login(ctx context.Context, w session.CookieWriter, phone, password string) (session.State, error) {
	res, err := s.backend.Login(ctx, phone, password)
	if err != nil {
		return session.State{}, mapBackendError(err, ErrInvalidCredentials)
	}
	return s.start(ctx, w, res)
}

// VerifyOTP confirms the OTP and restarts the session with the verified profile
func (s *authService) VerifyOTP(ctx context.Context, w session.CookieWriter, phone, otp string) (session.State, error) {
	res, err := s.backend.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return session.State{}, mapBackendError(err, ErrInvalidOTP)
	}
	return s.start(ctx, w, res)
}

func (s *authService) ResendOTP(ctx context.Context, phone string) error {
	if err := s.backend.ResendOTP(ctx, phone); err != nil {
		return mapBackendError(err, ErrRejected)
	}
	return nil
}

func (s *authService) Logout(ctx context.Context, w session.CookieWriter) {
	s.session.Logout(ctx, w)
}

func (s *authService) start(ctx context.Context, w session.CookieWriter, res *backend.AuthResult) (session.State, error) {
	if !s.session.Login(ctx, w, res.Profile, res.Token, res.UserID()) {
		return session.State{}, ErrIncompleteCredentials
	}
	return s.session.Snapshot(), nil
}

// mapBackendError translates backend failures; 401/403 become unauthorized
func mapBackendError(err, unauthorized error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return unauthorized
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && !apiErr.Temporary() {
		return fmt.Errorf("%w: %s", ErrRejected, apiErr.Message)
	}

	log.Error().Err(err).Msg("backend call failed")
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
