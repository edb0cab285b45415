package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/repository"
	"catalogadmin/internal/service"
)

// ProductHandler serves product endpoints.
type ProductHandler struct {
	svc  service.ProductService
	page Pagination
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService, page Pagination) *ProductHandler {
	return &ProductHandler{svc: svc, page: page}
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of name or description"
// @Param category_id query int false "Only products of this category"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} ProductListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	f := repository.ProductFilter{ListQuery: h.page.query(c)}
	if id, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 64); err == nil {
		f.CategoryID = uint(id)
	}
	return h.list(c, f)
}

// Search godoc
// @Summary Search products by name or description
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param term path string true "Case-insensitive substring"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} ProductListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products/search/{term} [get]
func (h *ProductHandler) Search(c echo.Context) error {
	f := repository.ProductFilter{ListQuery: h.page.query(c)}
	f.Search = c.Param("term")
	return h.list(c, f)
}

func (h *ProductHandler) list(c echo.Context, f repository.ProductFilter) error {
	products, meta, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProductListResponse{Products: nonNil(products), Meta: meta})
}

// Get godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}
	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProductResponse{Product: product})
}

// Create godoc
// @Summary Create product
// @Description The stored image is the file name at the end of image_url.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body service.ProductInput true "Product"
// @Success 201 {object} ProductResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req service.ProductInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ProductResponse{Product: product})
}

// Update godoc
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body service.ProductPatch true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /products/{id} [put]
// @Router /products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}
	var req service.ProductPatch
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProductResponse{Product: product})
}

// Delete godoc
// @Summary Delete product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProductNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
