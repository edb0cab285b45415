package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/cache"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
	"catalogadmin/internal/testutil"
)

type stubUsers map[uint]*model.User

func (s stubUsers) Get(_ context.Context, id uint) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fixture struct {
	jwt    *JWTService
	store  *tokenStore
	tokens repository.TokenRepository
	redis  *miniredis.Miniredis
	gate   *Gate
	users  stubUsers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	usersRepo := repository.NewUserRepository(db)
	users := stubUsers{}
	for _, u := range []*model.User{
		{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: model.RoleAdmin},
		{Name: "User", Email: "user@example.com", PasswordHash: "x", Role: model.RoleUser},
	} {
		require.NoError(t, usersRepo.Create(context.Background(), u))
		users[u.ID] = u
	}

	jwtSvc := NewJWTService("test-secret")
	tokens := repository.NewTokenRepository(db)
	store := NewTokenStore(jwtSvc, tokens, c, time.Hour).(*tokenStore)
	return &fixture{
		jwt:    jwtSvc,
		store:  store,
		tokens: tokens,
		redis:  mr,
		gate:   NewGate(jwtSvc, store, users),
		users:  users,
	}
}

func (f *fixture) userWithRole(role model.Role) *model.User {
	for _, u := range f.users {
		if u.Role == role {
			return u
		}
	}
	return nil
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		required model.Role
		wantErr  error
	}{
		{"admin passes admin", model.RoleAdmin, model.RoleAdmin, nil},
		{"admin passes user", model.RoleAdmin, model.RoleUser, nil},
		{"user passes user", model.RoleUser, model.RoleUser, nil},
		{"user fails admin", model.RoleUser, model.RoleAdmin, apperrors.ErrForbidden},
		{"no requirement", model.RoleUser, "", nil},
		{"unknown role fails", model.Role("guest"), model.RoleUser, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.role, tt.required)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	now := time.Now()
	raw, err := NewJWTService("other").Sign(1, NewTokenID(), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateToken(raw)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret")
	past := time.Now().Add(-2 * time.Hour)
	raw, err := svc.Sign(1, NewTokenID(), past, past.Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken(raw)
	assert.Error(t, err)
}

func TestTokenStore_IssueCachesAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.userWithRole(model.RoleUser)

	raw, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)

	claims, err := f.jwt.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	row, err := f.tokens.FindByID(ctx, claims.ID)
	require.NoError(t, err)
	assert.Equal(t, TokenName, row.Name)
	assert.True(t, f.redis.Exists(tokenKey(claims.ID)))
}

func TestTokenStore_ResolveFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.userWithRole(model.RoleUser)

	raw, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(raw)
	require.NoError(t, err)

	f.redis.FlushAll()
	id, err := f.store.Resolve(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.True(t, f.redis.Exists(tokenKey(claims.ID)))

	row, err := f.tokens.FindByID(ctx, claims.ID)
	require.NoError(t, err)
	assert.NotNil(t, row.LastUsedAt)
}

func TestTokenStore_ResolveRejectsExpiredRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.userWithRole(model.RoleUser)

	raw, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(raw)
	require.NoError(t, err)

	f.redis.FlushAll()
	f.store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.store.Resolve(ctx, claims)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestTokenStore_RevokeAllForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.userWithRole(model.RoleUser)

	first, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	second, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, f.store.RevokeAllForUser(ctx, user.ID))

	for _, raw := range []string{first, second} {
		claims, err := f.jwt.ValidateToken(raw)
		require.NoError(t, err)
		_, err = f.store.Resolve(ctx, claims)
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		assert.False(t, f.redis.Exists(tokenKey(claims.ID)))
	}
}

func TestGate_Check(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.userWithRole(model.RoleAdmin)
	user := f.userWithRole(model.RoleUser)

	adminToken, err := f.store.Issue(ctx, admin.ID)
	require.NoError(t, err)
	userToken, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	revoked, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	revokedClaims, err := f.jwt.ValidateToken(revoked)
	require.NoError(t, err)
	require.NoError(t, f.store.Revoke(ctx, revokedClaims.ID))

	tests := []struct {
		name     string
		token    string
		required model.Role
		wantUser *model.User
		wantErr  error
	}{
		{"missing token", "", "", nil, apperrors.ErrUnauthenticated},
		{"garbage token", "not-a-token", model.RoleUser, nil, apperrors.ErrUnauthenticated},
		{"revoked token", revoked, model.RoleUser, nil, apperrors.ErrUnauthenticated},
		{"user on user route", userToken, model.RoleUser, user, nil},
		{"user on admin route", userToken, model.RoleAdmin, nil, apperrors.ErrForbidden},
		{"admin on admin route", adminToken, model.RoleAdmin, admin, nil},
		{"admin on user route", adminToken, model.RoleUser, admin, nil},
		{"no requirement", userToken, "", user, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := f.gate.Check(ctx, tt.token, tt.required)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser.ID, got.ID)
		})
	}
}

func TestGate_DeletedUserIsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.userWithRole(model.RoleUser)

	raw, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	delete(f.users, user.ID)

	_, _, err = f.gate.Check(ctx, raw, model.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestTokenStore_RevokeFailsClosedWhenCacheUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.userWithRole(model.RoleUser)

	raw, err := f.store.Issue(ctx, user.ID)
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(raw)
	require.NoError(t, err)

	f.redis.SetError("LOADING redis is loading")
	require.Error(t, f.store.Revoke(ctx, claims.ID))
	require.Error(t, f.store.RevokeAllForUser(ctx, user.ID))

	// Nothing was deleted, so the revocation can be retried.
	_, err = f.tokens.FindByID(ctx, claims.ID)
	require.NoError(t, err)

	f.redis.SetError("")
	require.NoError(t, f.store.Revoke(ctx, claims.ID))
	assert.False(t, f.redis.Exists(tokenKey(claims.ID)))

	_, err = f.store.Resolve(ctx, claims)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
