package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
	"catalogadmin/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestProductService_CreateDerivesImage(t *testing.T) {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	products.On("NameTaken", mock.Anything, "Ryzen", uint(0)).Return(false, nil)
	categories.On("Exists", mock.Anything, uint(1)).Return(true, nil)
	products.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

	product, err := NewProductService(products, categories).Create(context.Background(), ProductInput{
		Name:         "Ryzen",
		Description:  "CPU",
		Price:        ptr(229.99),
		ValidityDate: ptr("2099-01-31"),
		ImageURL:     "https://host/path/to/pic.jpg",
		CategoryID:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, "pic.jpg", product.Image)
	assert.Equal(t, "https://host/path/to/pic.jpg", product.ImageURL)
	assert.True(t, decimal.RequireFromString("229.99").Equal(product.Price))
	require.NotNil(t, product.ValidityDate)
	products.AssertExpectations(t)
}

func TestProductService_CreateCollectsReferenceErrors(t *testing.T) {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	products.On("NameTaken", mock.Anything, "Ryzen", uint(0)).Return(true, nil)
	categories.On("Exists", mock.Anything, uint(42)).Return(false, nil)

	_, err := NewProductService(products, categories).Create(context.Background(), ProductInput{
		Name:       "Ryzen",
		Price:      ptr(1.0),
		ImageURL:   "https://host/a.png",
		CategoryID: 42,
	})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"The name has already been taken."}, ve.Fields["name"])
	assert.Equal(t, []string{"The selected category id is invalid."}, ve.Fields["category_id"])
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_UpdatePartial(t *testing.T) {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	existing := &model.Product{ID: 3, Name: "Old", Description: "Keep", Price: decimal.NewFromInt(10), CategoryID: 1}
	existing.SetImageURL("https://host/old.png")
	products.On("FindByID", mock.Anything, uint(3)).Return(existing, nil)
	products.On("Update", mock.Anything, existing).Return(nil)

	product, err := NewProductService(products, categories).Update(context.Background(), 3, ProductPatch{
		ImageURL: ptr("https://host/img/new.webp?size=2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Old", product.Name)
	assert.Equal(t, "Keep", product.Description)
	assert.Equal(t, "new.webp", product.Image)
	assert.True(t, decimal.NewFromInt(10).Equal(product.Price))
	categories.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestProductService_NotFound(t *testing.T) {
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)
	products.On("Delete", mock.Anything, uint(9)).Return(gorm.ErrRecordNotFound)
	svc := NewProductService(products, new(MockCategoryRepository))

	_, err := svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	_, err = svc.Update(context.Background(), 9, ProductPatch{})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 9), apperrors.ErrProductNotFound)
}

func TestProductService_ListMeta(t *testing.T) {
	products := new(MockProductRepository)
	f := repository.ProductFilter{ListQuery: model.ListQuery{Page: 1, PerPage: 10, Search: "ryzen"}}
	products.On("List", mock.Anything, f).Return([]model.Product{{ID: 1}}, int64(1), nil)

	got, meta, err := NewProductService(products, new(MockCategoryRepository)).List(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, meta.LastPage)
}
