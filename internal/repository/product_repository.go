package repository

import (
	"context"

	"gorm.io/gorm"

	"catalogadmin/internal/model"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	model.ListQuery
	CategoryID uint
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	NameTaken(ctx context.Context, name string, exceptID uint) (bool, error)
	List(ctx context.Context, f ProductFilter) ([]model.Product, int64, error)
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product and loads its category.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Category").Create(product).Error; err != nil {
		return err
	}
	return r.loadCategory(db, product)
}

// Update updates an existing product and reloads its category.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	db := r.db.WithContext(ctx)
	product.Category = nil
	if err := db.Omit("Category").Save(product).Error; err != nil {
		return err
	}
	return r.loadCategory(db, product)
}

func (r *productRepository) loadCategory(db *gorm.DB, product *model.Product) error {
	var category model.Category
	if err := db.Scopes(withProductsCount).First(&category, product.CategoryID).Error; err != nil {
		return err
	}
	product.Category = &category
	return nil
}

// FindByID finds a product by ID with its category.
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category", withProductsCount).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// NameTaken reports whether another product already uses name.
func (r *productRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns a page of products matching f, categories preloaded.
func (r *productRepository) List(ctx context.Context, f ProductFilter) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)
	base := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(search(f.Search, "name", "description"))
		if f.CategoryID != 0 {
			db = db.Where("category_id = ?", f.CategoryID)
		}
		return db
	}
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := base().Scopes(paginate(f.ListQuery)).Preload("Category", withProductsCount).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&model.Product{}, id))
}
