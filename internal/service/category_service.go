package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
)

// CategoryInput creates a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100" example:"Processors"`
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name *string `json:"name" validate:"omitempty,filled,max=100" example:"CPUs"`
}

// CategoryService exposes category operations.
type CategoryService interface {
	List(ctx context.Context, q model.ListQuery) ([]model.Category, model.PageMeta, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uint, in CategoryPatch) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo    repository.CategoryRepository
	cascade bool
}

// NewCategoryService builds a CategoryService. Unless cascade is set, deleting
// a category that still has products fails with ErrCategoryInUse.
func NewCategoryService(repo repository.CategoryRepository, cascade bool) CategoryService {
	return &categoryService{repo: repo, cascade: cascade}
}

func (s *categoryService) List(ctx context.Context, q model.ListQuery) ([]model.Category, model.PageMeta, error) {
	categories, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list categories: %w", err)
	}
	return categories, model.NewPageMeta(q, total), nil
}

// Get returns the category with its product count.
func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return s.find(ctx, id)
}

func (s *categoryService) find(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (s *categoryService) checkName(ctx context.Context, name string, exceptID uint) error {
	taken, err := s.repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return apperrors.FieldError("name", "The name has already been taken.")
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, in CategoryPatch) (*model.Category, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := s.checkName(ctx, name, id); err != nil {
			return nil, err
		}
		category.Name = name
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	var err error
	if s.cascade {
		err = s.repo.DeleteWithProducts(ctx, id)
	} else {
		n, cerr := s.repo.CountProducts(ctx, id)
		if cerr != nil {
			return fmt.Errorf("count products: %w", cerr)
		}
		if n > 0 {
			return apperrors.ErrCategoryInUse
		}
		err = s.repo.Delete(ctx, id)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	log.Info().Uint("category_id", id).Bool("cascade", s.cascade).Msg("category deleted")
	return nil
}
