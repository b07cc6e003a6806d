package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"santri_portal/internal/model"
	"santri_portal/internal/storage"

	"github.com/rs/zerolog/log"
)

const (
	// StorageKey is the durable storage entry holding the persisted state
	StorageKey = "auth-storage"
	// TTL is how long a login stays fresh
	TTL = 24 * time.Hour
	// TimeLayout is the ISO-8601 layout of lastLoginTime
	TimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Phase is the derived state of a session
type Phase string

const (
	Anonymous  Phase = "anonymous"
	Unverified Phase = "unverified"
	Verified   Phase = "verified"
)

// State is the persisted session layout
type State struct {
	AuthToken       *string     `json:"authToken"`
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	LastLoginTime   *string     `json:"lastLoginTime"`
	Verify          int         `json:"verify"`
	Role            *string     `json:"role"`
}

func (s State) clone() State {
	c := s
	c.User = s.User.Clone()
	if s.AuthToken != nil {
		token := *s.AuthToken
		c.AuthToken = &token
	}
	if s.LastLoginTime != nil {
		stamp := *s.LastLoginTime
		c.LastLoginTime = &stamp
	}
	if s.Role != nil {
		role := *s.Role
		c.Role = &role
	}
	return c
}

// consistent reports whether an authenticated state carries a token and a user
func (s State) consistent() bool {
	if !s.IsAuthenticated {
		return true
	}
	return s.AuthToken != nil && s.User != nil
}

// AuthSession is the only way to mutate the client session
type AuthSession interface {
	Login(ctx context.Context, w CookieWriter, profile model.Profile, token, userID string) bool
	Logout(ctx context.Context, w CookieWriter)
	CheckAuth() bool
	UpdateUserProfile(ctx context.Context, update model.ProfileUpdate)

	Snapshot() State
	Phase() Phase
}

// Config configures a session
type Config struct {
	Store  storage.Store
	Secure bool // Secure flag on the mirror cookies
	Now    func() time.Time
}

type authSession struct {
	mu     sync.RWMutex
	state  State
	store  storage.Store
	secure bool
	now    func() time.Time
}

// New creates a session, rehydrating it from cfg.Store when a fresh entry exists
func New(ctx context.Context, cfg Config) AuthSession {
	s := &authSession{
		store:  cfg.Store,
		secure: cfg.Secure,
		now:    cfg.Now,
	}
	if s.store == nil {
		s.store = storage.NewMemoryStore()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.rehydrate(ctx)
	return s
}

func (s *authSession) rehydrate(ctx context.Context) {
	data, err := s.store.Load(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn().Err(err).Msg("session storage unavailable, starting anonymous")
		}
		return
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn().Err(err).Msg("stored session is malformed, starting anonymous")
		return
	}
	if !st.consistent() {
		log.Warn().Msg("stored session is authenticated without credentials, starting anonymous")
		return
	}
	if st.IsAuthenticated && !fresh(st, s.now()) {
		log.Info().Msg("stored session expired, starting anonymous")
		return
	}

	s.state = st
	log.Debug().Bool("authenticated", st.IsAuthenticated).Msg("session rehydrated")
}

// Login replaces the session with the given identity.
// It returns false and changes nothing when token or userID is empty.
func (s *authSession) Login(ctx context.Context, w CookieWriter, profile model.Profile, token, userID string) bool {
	if token == "" || userID == "" {
		log.Error().
			Bool("has_token", token != "").
			Bool("has_user_id", userID != "").
			Msg("login rejected: token and user id are required")
		return false
	}

	role := profile.Role
	if role == "" {
		role = model.DefaultRole
	}
	stamp := s.now().UTC().Format(TimeLayout)

	st := State{
		AuthToken: &token,
		User: &model.User{
			UserID:     userID,
			Phone:      profile.Phone,
			Email:      profile.Email,
			Name:       profile.Name,
			RawProfile: profile.Raw,
		},
		IsAuthenticated: true,
		LastLoginTime:   &stamp,
		Verify:          profile.Verified,
		Role:            &role,
	}
	st.User = st.User.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = st
	s.persist(ctx)

	if w != nil {
		w.SetCookie(mirrorCookie(TokenCookie, token, s.secure))
		w.SetCookie(mirrorCookie(UserIDCookie, userID, s.secure))
	}

	log.Info().Str("user_id", userID).Str("role", role).Int("verify", st.Verify).Msg("session started")
	return true
}

// Logout clears the session, its cookies and its storage entry. Safe to repeat.
func (s *authSession) Logout(ctx context.Context, w CookieWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasAuthenticated := s.state.IsAuthenticated
	s.state = State{}

	if err := s.store.Delete(ctx, StorageKey); err != nil {
		log.Warn().Err(err).Msg("failed to remove stored session")
	}

	if w != nil {
		w.SetCookie(expiredCookie(TokenCookie, s.secure))
		w.SetCookie(expiredCookie(UserIDCookie, s.secure))
	}

	if wasAuthenticated {
		log.Info().Msg("session ended")
	}
}

// CheckAuth reports whether the session is authenticated and fresh
func (s *authSession) CheckAuth() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.checkLocked()
}

func (s *authSession) checkLocked() bool {
	st := s.state
	if !st.IsAuthenticated || st.AuthToken == nil || st.User == nil || st.User.UserID == "" {
		return false
	}
	return fresh(st, s.now())
}

// UpdateUserProfile merges update into the current user; no-op when anonymous
func (s *authSession) UpdateUserProfile(ctx context.Context, update model.ProfileUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return
	}

	u := s.state.User.Clone()
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Email != nil {
		email := *update.Email
		u.Email = &email
	}
	if len(update.Raw) > 0 {
		if u.RawProfile == nil {
			u.RawProfile = make(map[string]any, len(update.Raw))
		}
		for k, v := range update.Raw {
			u.RawProfile[k] = v
		}
	}

	s.state.User = u
	s.persist(ctx)
}

// Snapshot returns a copy of the current state
func (s *authSession) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.clone()
}

func (s *authSession) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case !s.checkLocked():
		return Anonymous
	case s.state.Verify == 1:
		return Verified
	default:
		return Unverified
	}
}

// persist writes the state; failures only cost durability
func (s *authSession) persist(ctx context.Context) {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode session")
		return
	}
	if err := s.store.Save(ctx, StorageKey, data); err != nil {
		log.Warn().Err(err).Msg("failed to persist session")
	}
}

// fresh reports whether st's login is at most TTL old at now
func fresh(st State, now time.Time) bool {
	if st.LastLoginTime == nil {
		return false
	}
	loggedIn, err := time.Parse(time.RFC3339, *st.LastLoginTime)
	if err != nil {
		return false
	}
	return now.Sub(loggedIn) <= TTL
}
