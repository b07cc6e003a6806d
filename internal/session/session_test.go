package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"santri_portal/internal/model"
	"santri_portal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Load(context.Context, string) ([]byte, error) { return nil, errStoreDown }
func (failingStore) Save(context.Context, string, []byte) error   { return errStoreDown }
func (failingStore) Delete(context.Context, string) error         { return errStoreDown }
func (failingStore) Ping(context.Context) error                   { return errStoreDown }

func newTestSession(t *testing.T) (AuthSession, storage.Store, *clock) {
	t.Helper()

	store := storage.NewMemoryStore()
	clk := &clock{now: time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC)}
	s := New(context.Background(), Config{Store: store, Now: clk.Now})
	return s, store, clk
}

func testProfile() model.Profile {
	return model.Profile{Name: "Ali", Phone: "0800", Raw: map[string]any{"name": "Ali", "nomor_hp": "0800"}}
}

func loadStored(t *testing.T, store storage.Store) State {
	t.Helper()

	data, err := store.Load(context.Background(), StorageKey)
	require.NoError(t, err)

	var st State
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestLogin_RequiresCredentials(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()
	rec := httptest.NewRecorder()

	assert.False(t, s.Login(ctx, ResponseCookies(rec), testProfile(), "", "u1"))
	assert.False(t, s.Login(ctx, ResponseCookies(rec), testProfile(), "t1", ""))

	st := s.Snapshot()
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Nil(t, st.AuthToken)
	assert.False(t, s.CheckAuth())
	assert.Empty(t, rec.Result().Cookies())

	_, err := store.Load(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogin_RoundTrip(t *testing.T) {
	s, store, clk := newTestSession(t)
	ctx := context.Background()

	require.True(t, s.Login(ctx, DiscardCookies, testProfile(), "tok123", "u1"))
	assert.True(t, s.CheckAuth())

	st := s.Snapshot()
	require.NotNil(t, st.User)
	require.NotNil(t, st.AuthToken)
	assert.Equal(t, "u1", st.User.UserID)
	assert.Equal(t, "Ali", st.User.Name)
	assert.Equal(t, "0800", st.User.Phone)
	assert.Equal(t, "tok123", *st.AuthToken)
	assert.Equal(t, 0, st.Verify)
	require.NotNil(t, st.Role)
	assert.Equal(t, model.DefaultRole, *st.Role)
	require.NotNil(t, st.LastLoginTime)
	assert.Equal(t, clk.Now().Format(TimeLayout), *st.LastLoginTime)
	assert.Equal(t, Unverified, s.Phase())

	stored := loadStored(t, store)
	assert.Equal(t, st, stored)
}

func TestLogin_PersistedLayout(t *testing.T) {
	s, store, _ := newTestSession(t)
	require.True(t, s.Login(context.Background(), DiscardCookies, testProfile(), "tok123", "u1"))

	data, err := store.Load(context.Background(), StorageKey)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"authToken", "user", "isAuthenticated", "lastLoginTime", "verify", "role"} {
		assert.Contains(t, raw, key)
	}
	user := raw["user"].(map[string]any)
	for _, key := range []string{"userId", "phone", "email", "name", "rawProfile"} {
		assert.Contains(t, user, key)
	}
	assert.Equal(t, "2024-04-10T08:00:00.000Z", raw["lastLoginTime"])
}

func TestLogin_VerifiedRole(t *testing.T) {
	s, _, _ := newTestSession(t)
	profile := testProfile()
	profile.Verified = 1
	profile.Role = "0a"

	require.True(t, s.Login(context.Background(), DiscardCookies, profile, "tok", "u1"))

	st := s.Snapshot()
	assert.Equal(t, 1, st.Verify)
	assert.Equal(t, "0a", *st.Role)
	assert.Equal(t, Verified, s.Phase())
}

func TestLogin_ReplacesPriorSession(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	first := testProfile()
	first.Role = "1a"
	first.Verified = 1
	require.True(t, s.Login(ctx, DiscardCookies, first, "tok-a", "u1"))
	require.True(t, s.Login(ctx, DiscardCookies, model.Profile{Name: "Budi"}, "tok-b", "u2"))

	st := s.Snapshot()
	assert.Equal(t, "u2", st.User.UserID)
	assert.Equal(t, "Budi", st.User.Name)
	assert.Equal(t, "", st.User.Phone)
	assert.Equal(t, "tok-b", *st.AuthToken)
	assert.Equal(t, 0, st.Verify)
	assert.Equal(t, model.DefaultRole, *st.Role)
}

func TestLogin_MirrorsCookies(t *testing.T) {
	store := storage.NewMemoryStore()
	s := New(context.Background(), Config{Store: store, Secure: true})
	rec := httptest.NewRecorder()

	require.True(t, s.Login(context.Background(), ResponseCookies(rec), testProfile(), "tok123", "u1"))

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, TokenCookie)
	require.Contains(t, cookies, UserIDCookie)

	for name, want := range map[string]string{TokenCookie: "tok123", UserIDCookie: "u1"} {
		c := cookies[name]
		assert.Equal(t, want, c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 86400, c.MaxAge)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
}

func TestCheckAuth_Expiry(t *testing.T) {
	s, store, clk := newTestSession(t)
	require.True(t, s.Login(context.Background(), DiscardCookies, testProfile(), "tok123", "u1"))

	clk.Advance(TTL)
	assert.True(t, s.CheckAuth(), "exactly 24h is still fresh")

	clk.Advance(time.Millisecond)
	assert.False(t, s.CheckAuth())
	assert.Equal(t, Anonymous, s.Phase())

	clk.Advance(time.Hour)
	assert.False(t, s.CheckAuth())
	assert.True(t, s.Snapshot().IsAuthenticated)
	assert.True(t, loadStored(t, store).IsAuthenticated)
}

func TestLogout_IdempotentAndClears(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()
	require.True(t, s.Login(ctx, DiscardCookies, testProfile(), "tok123", "u1"))

	rec := httptest.NewRecorder()
	s.Logout(ctx, ResponseCookies(rec))
	s.Logout(ctx, ResponseCookies(httptest.NewRecorder()))

	assert.False(t, s.CheckAuth())
	st := s.Snapshot()
	assert.Nil(t, st.User)
	assert.Nil(t, st.AuthToken)
	assert.Nil(t, st.LastLoginTime)
	assert.False(t, st.IsAuthenticated)

	_, err := store.Load(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
		assert.Empty(t, c.Value)
	}
}

func TestLogout_Anonymous(t *testing.T) {
	s, _, _ := newTestSession(t)

	assert.NotPanics(t, func() {
		s.Logout(context.Background(), nil)
	})
	assert.False(t, s.CheckAuth())
}

func TestUpdateUserProfile_Merge(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()
	require.True(t, s.Login(ctx, DiscardCookies, testProfile(), "tok123", "u1"))
	before := s.Snapshot()

	name := "New Name"
	s.UpdateUserProfile(ctx, model.ProfileUpdate{Name: &name, Raw: map[string]any{"kamar": "B2"}})

	st := s.Snapshot()
	assert.Equal(t, "New Name", st.User.Name)
	assert.Equal(t, "u1", st.User.UserID)
	assert.Equal(t, "0800", st.User.Phone)
	assert.Equal(t, "tok123", *st.AuthToken)
	assert.Equal(t, "B2", st.User.RawProfile["kamar"])
	assert.Equal(t, "Ali", st.User.RawProfile["name"])
	assert.Equal(t, before.IsAuthenticated, st.IsAuthenticated)
	assert.Equal(t, before.Verify, st.Verify)
	assert.Equal(t, *before.Role, *st.Role)
	assert.Equal(t, *before.LastLoginTime, *st.LastLoginTime)

	assert.Equal(t, "New Name", loadStored(t, store).User.Name)
}

func TestUpdateUserProfile_AnonymousNoop(t *testing.T) {
	s, store, _ := newTestSession(t)
	ctx := context.Background()

	name := "New Name"
	s.UpdateUserProfile(ctx, model.ProfileUpdate{Name: &name})

	assert.Nil(t, s.Snapshot().User)
	_, err := store.Load(ctx, StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s, _, _ := newTestSession(t)
	require.True(t, s.Login(context.Background(), DiscardCookies, testProfile(), "tok123", "u1"))

	st := s.Snapshot()
	st.User.Name = "Mallory"
	*st.AuthToken = "stolen"
	st.User.RawProfile["name"] = "Mallory"

	fresh := s.Snapshot()
	assert.Equal(t, "Ali", fresh.User.Name)
	assert.Equal(t, "tok123", *fresh.AuthToken)
	assert.Equal(t, "Ali", fresh.User.RawProfile["name"])
}

func TestNew_Rehydrates(t *testing.T) {
	s, store, clk := newTestSession(t)
	require.True(t, s.Login(context.Background(), DiscardCookies, testProfile(), "tok123", "u1"))

	clk.Advance(time.Hour)
	reloaded := New(context.Background(), Config{Store: store, Now: clk.Now})

	assert.True(t, reloaded.CheckAuth())
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

func TestNew_StaleEntryStartsAnonymous(t *testing.T) {
	s, store, clk := newTestSession(t)
	require.True(t, s.Login(context.Background(), DiscardCookies, testProfile(), "tok123", "u1"))

	clk.Advance(25 * time.Hour)
	reloaded := New(context.Background(), Config{Store: store, Now: clk.Now})

	assert.False(t, reloaded.CheckAuth())
	assert.Nil(t, reloaded.Snapshot().User)
	assert.True(t, loadStored(t, store).IsAuthenticated)
}

func TestNew_RejectsInconsistentEntry(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, StorageKey, []byte(`{"isAuthenticated":true,"authToken":null,"user":null}`)))

	s := New(ctx, Config{Store: store})
	assert.False(t, s.Snapshot().IsAuthenticated)

	require.NoError(t, store.Save(ctx, StorageKey, []byte(`not json`)))
	s = New(ctx, Config{Store: store})
	assert.False(t, s.CheckAuth())
}

func TestFailingStore_KeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, Config{Store: failingStore{}})

	require.True(t, s.Login(ctx, DiscardCookies, testProfile(), "tok123", "u1"))
	assert.True(t, s.CheckAuth())

	name := "New Name"
	s.UpdateUserProfile(ctx, model.ProfileUpdate{Name: &name})
	assert.Equal(t, "New Name", s.Snapshot().User.Name)

	s.Logout(ctx, DiscardCookies)
	assert.False(t, s.CheckAuth())
}

func TestConcurrentAccess(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.Login(ctx, DiscardCookies, testProfile(), "tok", "u1")
		}()
		go func() {
			defer wg.Done()
			s.CheckAuth()
			s.Snapshot()
		}()
		go func() {
			defer wg.Done()
			s.Logout(ctx, DiscardCookies)
		}()
	}
	wg.Wait()

	st := s.Snapshot()
	assert.True(t, st.consistent())
}
