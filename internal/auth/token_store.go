package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"catalogadmin/internal/cache"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
)

const (
	tokenKeyPrefix = "token:"
	// TokenName labels tokens issued by register and login.
	TokenName = "auth_token"
)

// TokenStore issues and resolves bearer tokens. The database is the source
// of truth; redis only caches jti -> user id for the token's remaining life.
type TokenStore interface {
	Issue(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, claims *Claims) (uint, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}

type tokenStore struct {
	jwt    *JWTService
	tokens repository.TokenRepository
	cache  *cache.Client
	ttl    time.Duration
	now    func() time.Time
}

var _ TokenStore = (*tokenStore)(nil)

// NewTokenStore creates a new token store. A nil cache disables caching.
func NewTokenStore(jwt *JWTService, tokens repository.TokenRepository, c *cache.Client, ttl time.Duration) TokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &tokenStore{jwt: jwt, tokens: tokens, cache: c, ttl: ttl, now: time.Now}
}

func tokenKey(id string) string { return tokenKeyPrefix + id }

func (s *tokenStore) Issue(ctx context.Context, userID uint) (string, error) {
	now := s.now()
	row := &model.AccessToken{
		ID:        NewTokenID(),
		UserID:    userID,
		Name:      TokenName,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	signed, err := s.jwt.Sign(userID, row.ID, now, row.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	_ = s.cache.Set(ctx, tokenKey(row.ID), []byte(strconv.FormatUint(uint64(userID), 10)), s.ttl)
	return signed, nil
}

// Resolve returns the user the token belongs to, or ErrUnauthenticated when
// the token was revoked or has expired.
func (s *tokenStore) Resolve(ctx context.Context, claims *Claims) (uint, error) {
	if claims == nil || claims.ID == "" {
		return 0, apperrors.ErrUnauthenticated
	}
	key := tokenKey(claims.ID)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		if id, err := strconv.ParseUint(string(data), 10, 64); err == nil && uint(id) == claims.UserID {
			return claims.UserID, nil
		}
	}

	row, err := s.tokens.FindByID(ctx, claims.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("find token: %w", err)
	}

	now := s.now()
	if row.Expired(now) || row.UserID != claims.UserID {
		return 0, apperrors.ErrUnauthenticated
	}

	if err := s.tokens.Touch(ctx, row.ID, now); err != nil {
		return 0, fmt.Errorf("touch token: %w", err)
	}
	_ = s.cache.Set(ctx, key, []byte(strconv.FormatUint(uint64(row.UserID), 10)), row.ExpiresAt.Sub(now))
	return row.UserID, nil
}

func (s *tokenStore) Revoke(ctx context.Context, tokenID string) error {
	// Cache first, so a redis failure leaves the row for a retry.
	if err := s.invalidate(ctx, tokenID); err != nil {
		return err
	}
	err := s.tokens.Delete(ctx, tokenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	// A concurrent Resolve may have re-cached the row before it was deleted.
	return s.invalidate(ctx, tokenID)
}

func (s *tokenStore) RevokeAllForUser(ctx context.Context, userID uint) error {
	ids, err := s.tokens.IDsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}
	if err := s.invalidate(ctx, ids...); err != nil {
		return err
	}
	if ids, err = s.tokens.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return s.invalidate(ctx, ids...)
}

func (s *tokenStore) invalidate(ctx context.Context, tokenIDs ...string) error {
	keys := make([]string, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		keys = append(keys, tokenKey(id))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate token cache: %w", err)
	}
	return nil
}
