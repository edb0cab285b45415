package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalogadmin/internal/auth"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
)

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255" example:"Jane Doe"`
	Email                string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password             string `json:"password" validate:"required,min=8" example:"password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password" example:"password"`
	Role                 string `json:"role" validate:"omitempty,role" example:"user"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" example:"admin@example.com"`
	Password string `json:"password" validate:"required" example:"password"`
}

// ProfileInput is a partial self-service update of the caller's account.
type ProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,filled,max=255"`
	Email    *string `json:"email" validate:"omitempty,filled,email,max=255"`
	Password *string `json:"password" validate:"omitempty,filled,min=8"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, in LoginInput) (*model.User, string, error)
	// Logout revokes the token identified by tokenID.
	Logout(ctx context.Context, tokenID string) error
	CurrentUser(ctx context.Context, rawToken string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User, in ProfileInput) (*model.User, error)
}

type authService struct {
	repo          repository.UserRepository
	users         UserService
	tokens        auth.TokenStore
	gate          *auth.Gate
	revokeOnLogin bool
}

// NewAuthService creates a new authentication service. When revokeOnLogin is
// set a successful login revokes every earlier token of the user.
func NewAuthService(repo repository.UserRepository, users UserService, tokens auth.TokenStore, gate *auth.Gate, revokeOnLogin bool) AuthService {
	return &authService{
		repo:          repo,
		users:         users,
		tokens:        tokens,
		gate:          gate,
		revokeOnLogin: revokeOnLogin,
	}
}

// Register creates a user and issues their first token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	user, err := s.users.Create(ctx, CreateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info().Uint("user_id", user.ID).Str("role", user.Role.String()).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords fail identically.
func (s *authService) Login(ctx context.Context, in LoginInput) (*model.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if s.revokeOnLogin {
		if err := s.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
			return nil, "", err
		}
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info().Uint("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return apperrors.ErrUnauthenticated
	}
	if err := s.tokens.Revoke(ctx, tokenID); err != nil {
		return err
	}
	log.Info().Str("token_id", tokenID).Msg("user logged out")
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, rawToken string) (*model.User, error) {
	user, _, err := s.gate.Check(ctx, rawToken, "")
	return user, err
}

// UpdateProfile applies in to user. Callers cannot change their own role.
func (s *authService) UpdateProfile(ctx context.Context, user *model.User, in ProfileInput) (*model.User, error) {
	if in.Role != nil && model.Role(*in.Role) != user.Role {
		return nil, apperrors.FieldError("role", "You cannot change your own role.")
	}
	return s.users.Update(ctx, user.ID, UpdateUserInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
}
