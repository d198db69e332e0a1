package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownvoyages/backoffice/internal/cache"
	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
)

// stubDirectory is an in-memory UserDirectory keyed by email.
type stubDirectory struct {
	users map[string]*model.User
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{users: make(map[string]*model.User)}
}

func (d *stubDirectory) ByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := d.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (d *stubDirectory) Create(_ context.Context, name, email, passwordHash, role string) (*model.User, error) {
	if _, ok := d.users[email]; ok {
		return nil, repository.ErrEmailTaken
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	d.users[email] = u
	return u, nil
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *stubDirectory, *cache.MemoryKV) {
	t.Helper()
	dir := newStubDirectory()
	kv := cache.NewMemoryKV()
	return NewStore(dir, kv, "test-secret", ttl), dir, kv
}

func seedUser(t *testing.T, dir *stubDirectory, email, password string) {
	t.Helper()
	_, err := dir.Create(context.Background(), "Ada Byron", email, HashPassword(password), "agent")
	require.NoError(t, err)
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	store, dir, _ := newTestStore(t, time.Hour)
	seedUser(t, dir, "ada@example.com", "s3cret")

	creds, err := store.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token)
	assert.Equal(t, "ada@example.com", creds.User.Email)
	assert.Equal(t, "agent", creds.User.Role)

	p, err := store.Authenticate(context.Background(), creds.Token)
	require.NoError(t, err)
	assert.Equal(t, creds.User.UserID, p.UserID)
}

func TestLogin_NormalisesEmailCase(t *testing.T) {
	store, dir, _ := newTestStore(t, time.Hour)
	seedUser(t, dir, "ada@example.com", "s3cret")

	_, err := store.Login(context.Background(), "  Ada@Example.COM ", "s3cret")
	assert.NoError(t, err)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	store, dir, _ := newTestStore(t, time.Hour)
	seedUser(t, dir, "ada@example.com", "s3cret")

	_, err := store.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts look identical to a wrong password.
	_, err = store.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignup_DefaultsRoleAndOpensSession(t *testing.T) {
	store, dir, _ := newTestStore(t, time.Hour)

	creds, err := store.Signup(context.Background(), model.SignupRequest{
		Name:     "Grace Hopper",
		Email:    "Grace@Example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "agent", creds.User.Role)
	assert.Equal(t, "grace@example.com", creds.User.Email)

	stored := dir.users["grace@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, HashPassword("s3cret"), stored.PasswordHash)

	_, err = store.Authenticate(context.Background(), creds.Token)
	assert.NoError(t, err)
}

func TestSignup_RequiresAllFields(t *testing.T) {
	store, _, _ := newTestStore(t, time.Hour)
	_, err := store.Signup(context.Background(), model.SignupRequest{Email: "x@y.z"})
	assert.Error(t, err)
}

func TestLogout_DropsSession(t *testing.T) {
	store, dir, _ := newTestStore(t, time.Hour)
	seedUser(t, dir, "ada@example.com", "s3cret")

	creds, err := store.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, store.Logout(context.Background(), creds.Token, "user request"))

	_, err = store.Authenticate(context.Background(), creds.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthenticate_RejectsGarbageAndForeignTokens(t *testing.T) {
	store, _, _ := newTestStore(t, time.Hour)

	_, err := store.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrSessionExpired)

	dir := newStubDirectory()
	seedUser(t, dir, "ada@example.com", "s3cret")
	foreign := NewStore(dir, cache.NewMemoryKV(), "different-secret", time.Hour)
	creds, err := foreign.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)

	_, err = store.Authenticate(context.Background(), creds.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthenticate_InactivityWindowIsDebounced(t *testing.T) {
	dir := newStubDirectory()
	kv := cache.NewMemoryKV()
	store := NewStore(dir, kv, "test-secret", 30*time.Minute)
	seedUser(t, dir, "ada@example.com", "s3cret")

	now := time.Now()
	kv.SetClock(func() time.Time { return now })

	creds, err := store.Login(context.Background(), "ada@example.com", "s3cret")
	require.NoError(t, err)

	// Activity at minute 20 pushes expiry to minute 50.
	now = now.Add(20 * time.Minute)
	_, err = store.Authenticate(context.Background(), creds.Token)
	require.NoError(t, err)

	// Minute 45: inside the refreshed window.
	now = now.Add(25 * time.Minute)
	_, err = store.Authenticate(context.Background(), creds.Token)
	require.NoError(t, err)

	// 31 quiet minutes later the session has lapsed.
	now = now.Add(31 * time.Minute)
	_, err = store.Authenticate(context.Background(), creds.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}
