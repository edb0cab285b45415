package repository

import (
	"context"

	"gorm.io/gorm"

	"catalogadmin/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	NameTaken(ctx context.Context, name string, exceptID uint) (bool, error)
	List(ctx context.Context, q model.ListQuery) ([]model.Category, int64, error)
	CountProducts(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	// DeleteWithProducts removes the category and its products in one transaction.
	DeleteWithProducts(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update updates an existing category and refreshes its product count.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	db := r.db.WithContext(ctx)
	if err := db.Save(category).Error; err != nil {
		return err
	}
	return db.Model(&model.Product{}).Where("category_id = ?", category.ID).Count(&category.ProductsCount).Error
}

// FindByID finds a category by ID with its product count.
func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Scopes(withProductsCount).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Exists reports whether a category with id exists.
func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// NameTaken reports whether another category already uses name.
func (r *categoryRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Category{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// withProductsCount selects every category column plus products_count.
func withProductsCount(db *gorm.DB) *gorm.DB {
	return db.Select("categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS products_count")
}

// List returns a page of categories matching q, each with its product count.
func (r *categoryRepository) List(ctx context.Context, q model.ListQuery) ([]model.Category, int64, error) {
	var (
		categories []model.Category
		total      int64
	)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Category{}).Scopes(search(q.Search, "name"))
	}
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := base().Scopes(withProductsCount, paginate(q)).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// CountProducts returns how many products reference the category.
func (r *categoryRepository) CountProducts(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a category.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&model.Category{}, id))
}

// DeleteWithProducts removes a category together with its products.
func (r *categoryRepository) DeleteWithProducts(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&model.Category{}, id))
	})
}
