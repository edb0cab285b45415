package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalogadmin/internal/auth"
	"catalogadmin/internal/cache"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
)

const (
	userCacheTTL = 5 * time.Minute
	bcryptCost   = 10
)

// CreateUserInput is the payload of an admin-created user.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// UpdateUserInput is a partial user update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,filled,max=255"`
	Email    *string `json:"email" validate:"omitempty,filled,email,max=255"`
	Password *string `json:"password" validate:"omitempty,filled,min=8"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

// UserService exposes domain operations.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, q model.ListQuery) ([]model.User, model.PageMeta, error)
	Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	// Delete removes the user identified by id on behalf of actor. Actors
	// cannot delete themselves.
	Delete(ctx context.Context, actor *model.User, id uint) error
}

type userService struct {
	repo   repository.UserRepository
	tokens auth.TokenStore
	cache  *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, tokens auth.TokenStore, cache *cache.Client) UserService {
	return &userService{repo: repo, tokens: tokens, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	role := model.RoleUser
	if in.Role != "" {
		if role, err = model.ParseRole(in.Role); err != nil {
			return nil, apperrors.FieldError("role", "The selected role is invalid.")
		}
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Get returns the user with id, served from cache when possible. Cached
// users carry no password hash.
func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) find(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, q model.ListQuery) ([]model.User, model.PageMeta, error) {
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list users: %w", err)
	}
	return users, model.NewPageMeta(q, total), nil
}

func (s *userService) Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			taken, err := s.repo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, apperrors.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		if user.PasswordHash, err = hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	if in.Role != nil {
		role, err := model.ParseRole(*in.Role)
		if err != nil {
			return nil, apperrors.FieldError("role", "The selected role is invalid.")
		}
		user.Role = role
	}

	// A cached copy may carry the old role, so the update only proceeds once
	// it is gone.
	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		return nil, fmt.Errorf("invalidate user cache: %w", err)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if actor != nil && actor.ID == id {
		return apperrors.FieldError("id", "You cannot delete your own account.")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	if err := s.tokens.RevokeAllForUser(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		return fmt.Errorf("invalidate user cache: %w", err)
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	ev := log.Info().Uint("user_id", id)
	if actor != nil {
		ev = ev.Uint("actor_id", actor.ID)
	}
	ev.Msg("user deleted")
	return nil
}
