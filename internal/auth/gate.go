package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
)

// UserLookup finds users by id. Implementations return an error wrapping
// apperrors.ErrNotFound for unknown ids.
type UserLookup interface {
	Get(ctx context.Context, id uint) (*model.User, error)
}

// Authorize reports whether a caller with role may perform an operation that
// requires required. An empty requirement admits every role.
func Authorize(role, required model.Role) error {
	if required == "" || role.Satisfies(required) {
		return nil
	}
	return apperrors.ErrForbidden
}

// Gate authenticates bearer tokens and authorizes the resulting user.
type Gate struct {
	jwt    *JWTService
	tokens TokenStore
	users  UserLookup
}

// NewGate builds a gate.
func NewGate(jwt *JWTService, tokens TokenStore, users UserLookup) *Gate {
	return &Gate{jwt: jwt, tokens: tokens, users: users}
}

// Authenticate resolves already verified claims to their user.
func (g *Gate) Authenticate(ctx context.Context, claims *Claims) (*model.User, error) {
	userID, err := g.tokens.Resolve(ctx, claims)
	if err != nil {
		return nil, err
	}
	user, err := g.users.Get(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load token user: %w", err)
	}
	return user, nil
}

// Check authenticates raw and authorizes the user against required. The
// returned claims identify the token used.
func (g *Gate) Check(ctx context.Context, raw string, required model.Role) (*model.User, *Claims, error) {
	if raw == "" {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	claims, err := g.jwt.ValidateToken(raw)
	if err != nil {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	user, err := g.Authenticate(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	if err := Authorize(user.Role, required); err != nil {
		return user, claims, err
	}
	return user, claims, nil
}
