package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
	"catalogadmin/internal/validator"
)

// ProductInput creates a product.
type ProductInput struct {
	Name         string   `json:"name" validate:"required,max=50" example:"AMD Ryzen 5 7600X"`
	Description  string   `json:"description" validate:"required,max=200" example:"6 cores, 12 threads"`
	Price        *float64 `json:"price" validate:"required,min=0" example:"229.99"`
	ValidityDate *string  `json:"validity_date" validate:"omitempty,calendar_date,today_or_later" example:"2030-12-31"`
	ImageURL     string   `json:"image_url" validate:"required,url" example:"https://cdn.example.com/img/ryzen.jpg"`
	CategoryID   uint     `json:"category_id" validate:"required" example:"1"`
}

// ProductPatch is a partial product update. Nil fields are left unchanged; a
// blank validity_date clears the date.
type ProductPatch struct {
	Name         *string  `json:"name" validate:"omitempty,filled,max=50"`
	Description  *string  `json:"description" validate:"omitempty,filled,max=200"`
	Price        *float64 `json:"price" validate:"omitempty,min=0"`
	ValidityDate *string  `json:"validity_date" validate:"omitempty,calendar_date,today_or_later"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,filled,url"`
	CategoryID   *uint    `json:"category_id" validate:"omitempty,filled"`
}

// ProductService exposes product operations.
type ProductService interface {
	List(ctx context.Context, f repository.ProductFilter) ([]model.Product, model.PageMeta, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, in ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductService builds a ProductService.
func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository) ProductService {
	return &productService{repo: repo, categories: categories}
}

func (s *productService) List(ctx context.Context, f repository.ProductFilter) ([]model.Product, model.PageMeta, error) {
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list products: %w", err)
	}
	return products, model.NewPageMeta(f.ListQuery, total), nil
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// checkRefs verifies the store-dependent rules: unique name and an existing
// category. Every failure is collected.
func (s *productService) checkRefs(ctx context.Context, name *string, categoryID *uint, exceptID uint) error {
	verr := apperrors.NewValidationError()
	if name != nil {
		taken, err := s.repo.NameTaken(ctx, *name, exceptID)
		if err != nil {
			return fmt.Errorf("check product name: %w", err)
		}
		if taken {
			verr.Add("name", "The name has already been taken.")
		}
	}
	if categoryID != nil {
		ok, err := s.categories.Exists(ctx, *categoryID)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !ok {
			verr.Add("category_id", "The selected category id is invalid.")
		}
	}
	return verr.OrNil()
}

func parseValidity(raw *string) (*datatypes.Date, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := validator.ParseDate(*raw)
	if err != nil {
		return nil, apperrors.FieldError("validity_date", "The validity date does not match the format Y-m-d.")
	}
	d := datatypes.Date(t)
	return &d, nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.checkRefs(ctx, &name, &in.CategoryID, 0); err != nil {
		return nil, err
	}
	validity, err := parseValidity(in.ValidityDate)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		ValidityDate: validity,
		CategoryID:   in.CategoryID,
	}
	if in.Price != nil {
		product.Price = decimal.NewFromFloat(*in.Price).Round(2)
	}
	product.SetImageURL(strings.TrimSpace(in.ImageURL))

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uint, in ProductPatch) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var name *string
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		name = &n
	}
	if err := s.checkRefs(ctx, name, in.CategoryID, id); err != nil {
		return nil, err
	}

	if name != nil {
		product.Name = *name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = decimal.NewFromFloat(*in.Price).Round(2)
	}
	if in.ValidityDate != nil {
		if product.ValidityDate, err = parseValidity(in.ValidityDate); err != nil {
			return nil, err
		}
	}
	if in.ImageURL != nil {
		product.SetImageURL(strings.TrimSpace(*in.ImageURL))
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
