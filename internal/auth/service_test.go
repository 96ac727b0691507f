package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/school-help-desk/internal/model"
	"github.com/iliyamo/school-help-desk/internal/repository"
	"github.com/iliyamo/school-help-desk/internal/utils"
)

// memStore is an in-memory UserStore + TokenStore honoring the same
// contract as the MySQL repositories, including the user-delete cascade
// over refresh tokens and single-winner rotation.
type memStore struct {
	mu     sync.Mutex
	seq    uint64
	users  map[uint64]model.User
	tokens map[string]*tokenRow

	failWith error // when set, every call fails with this error
}

type tokenRow struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

func newMemStore() *memStore {
	return &memStore{users: map[uint64]model.User{}, tokens: map[string]*tokenRow{}}
}

func (m *memStore) Create(_ context.Context, email, passwordHash string, role model.Role) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	m.seq++
	m.users[m.seq] = model.User{ID: m.seq, Email: email, PasswordHash: passwordHash, Role: role}
	return m.seq, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return model.User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return model.User{}, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memStore) Update(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	// FK cascade: the user's refresh tokens vanish with the row
	for h, row := range m.tokens {
		if row.userID == id {
			delete(m.tokens, h)
		}
	}
	return nil
}

func (m *memStore) Store(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.tokens[tokenHash] = &tokenRow{userID: userID, exp: exp}
	return nil
}

func (m *memStore) Rotate(_ context.Context, oldHash, newHash string, newExp time.Time) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	row, ok := m.tokens[oldHash]
	if !ok || row.revoked || !time.Now().UTC().Before(row.exp) {
		return 0, repository.ErrNotFound
	}
	row.revoked = true
	m.tokens[newHash] = &tokenRow{userID: row.userID, exp: newExp}
	return row.userID, nil
}

func (m *memStore) Revoke(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if row, ok := m.tokens[tokenHash]; ok {
		row.revoked = true
	}
	return nil
}

func (m *memStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tokens {
		if row.userID == userID {
			row.revoked = true
		}
	}
	return nil
}

func (m *memStore) liveTokens(userID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.tokens {
		if row.userID == userID && !row.revoked && time.Now().UTC().Before(row.exp) {
			n++
		}
	}
	return n
}

const testSecret = "unit-test-secret"

func newTestService(store *memStore) *Service {
	return NewService(store, store, testSecret, 60, 7, bcrypt.MinCost)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, u.Role)
	assert.NotZero(t, u.ID)

	// stored hash verifies, plaintext is not stored
	stored, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "pw123"))

	_, err = svc.Register(ctx, "kid@school.edu", "other", model.RoleStudent)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "kid@school.edu", "pw123")
	require.NoError(t, err)

	claims, err := utils.ParseAccessToken(testSecret, pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, model.RoleStudent, claims.Role)

	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), pair.Refresh.Exp, 5*time.Second)
	assert.Equal(t, 1, store.liveTokens(u.ID))
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)

	_, errWrongPw := svc.Login(ctx, "kid@school.edu", "nope")
	_, errNoUser := svc.Login(ctx, "ghost@school.edu", "nope")

	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPw, errNoUser)
}

func TestRefresh_RotatesAndBlocksReplay(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "kid@school.edu", "pw123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.Refresh.Raw)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh.Raw, rotated.Refresh.Raw)

	// old token revoked, exactly one live successor
	assert.Equal(t, 1, store.liveTokens(u.ID))
	oldRow := store.tokens[utils.HashRefreshRaw(pair.Refresh.Raw)]
	require.NotNil(t, oldRow)
	assert.True(t, oldRow.revoked)

	// the new access token carries the right identity
	claims, err := utils.ParseAccessToken(testSecret, rotated.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// replaying the rotated token fails; the successor still works
	_, err = svc.Refresh(ctx, pair.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Refresh(ctx, rotated.Refresh.Raw)
	assert.NoError(t, err)
}

func TestRefresh_RejectsUnknownExpiredRevoked(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// expired token
	expired, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	store.tokens[utils.HashRefreshRaw(expired.Raw)] = &tokenRow{userID: 1, exp: time.Now().UTC().Add(-time.Hour)}
	_, err = svc.Refresh(ctx, expired.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// revoked token
	revoked, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	store.tokens[utils.HashRefreshRaw(revoked.Raw)] = &tokenRow{userID: 1, exp: time.Now().UTC().Add(time.Hour), revoked: true}
	_, err = svc.Refresh(ctx, revoked.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_IsIdempotent(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "kid@school.edu", "pw123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh.Raw))
	// logged-out token can no longer refresh
	_, err = svc.Refresh(ctx, pair.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// repeating, and logging out garbage, still succeed
	assert.NoError(t, svc.Logout(ctx, pair.Refresh.Raw))
	assert.NoError(t, svc.Logout(ctx, "unknown-token"))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestAdminUpdateUser(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)

	updated, err := svc.AdminUpdateUser(ctx, u.ID, UpdateUserParams{Email: "new@school.edu", Password: "pw456", Role: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, "new@school.edu", updated.Email)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.True(t, utils.VerifyPassword(updated.PasswordHash, "pw456"))

	// empty fields leave the record alone
	same, err := svc.AdminUpdateUser(ctx, u.ID, UpdateUserParams{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	_, err = svc.AdminUpdateUser(ctx, 9999, UpdateUserParams{Email: "x@y.z"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminDeleteUser_CascadesTokens(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "kid@school.edu", "pw123", model.RoleStudent)
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "kid@school.edu", "pw123")
	require.NoError(t, err)

	require.NoError(t, svc.AdminDeleteUser(ctx, u.ID))
	assert.Equal(t, 0, store.liveTokens(u.ID))

	// a token minted before the delete is dead
	_, err = svc.Refresh(ctx, pair.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.ErrorIs(t, svc.AdminDeleteUser(ctx, u.ID), ErrUserNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	store.failWith = context.DeadlineExceeded

	_, err := svc.Login(ctx, "kid@school.edu", "pw123")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.Refresh(ctx, "whatever")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.ErrorIs(t, svc.Logout(ctx, "whatever"), ErrStoreUnavailable)
}
