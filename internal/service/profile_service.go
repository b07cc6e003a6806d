package service

import (
	"context"
	"errors"

	"santri_portal/internal/backend"
	"santri_portal/internal/model"
	"santri_portal/internal/session"

	"github.com/rs/zerolog/log"
)

// ProfileService changes the user record held by the session
type ProfileService interface {
	Update(ctx context.Context, update model.ProfileUpdate) (*model.User, error)
	Refresh(ctx context.Context, w session.CookieWriter) (*model.User, error)
}

type profileService struct {
	backend backend.Client
	session session.AuthSession
}

// NewProfileService creates a new ProfileService
func NewProfileService(client backend.Client, sess session.AuthSession) ProfileService {
	return &profileService{
		backend: client,
		session: sess,
	}
}

// Update merges update into the session user
func (s *profileService) Update(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	s.session.UpdateUserProfile(ctx, update)

	user := s.session.Snapshot().User
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

// Refresh re-reads the profile from the backend. A revoked token ends the session.
func (s *profileService) Refresh(ctx context.Context, w session.CookieWriter) (*model.User, error) {
	st := s.session.Snapshot()
	if st.AuthToken == nil {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.backend.Profile(ctx, *st.AuthToken)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			log.Info().Msg("backend rejected session token, logging out")
			s.session.Logout(ctx, w)
			return nil, ErrNotAuthenticated
		}
		return nil, mapBackendError(err, ErrNotAuthenticated)
	}

	return s.Update(ctx, profile.Update())
}
