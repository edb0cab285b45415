package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/service"
)

// CategoryHandler serves category endpoints.
type CategoryHandler struct {
	svc  service.CategoryService
	page Pagination
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(svc service.CategoryService, page Pagination) *CategoryHandler {
	return &CategoryHandler{svc: svc, page: page}
}

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of the name"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} CategoryListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, meta, err := h.svc.List(c.Request().Context(), h.page.query(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CategoryListResponse{Categories: nonNil(categories), Meta: meta})
}

// Get godoc
// @Summary Get category by id
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}
	category, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CategoryResponse{Category: category})
}

// Create godoc
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body service.CategoryInput true "Category"
// @Success 201 {object} CategoryResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req service.CategoryInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CategoryResponse{Category: category})
}

// Update godoc
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body service.CategoryPatch true "Fields to change"
// @Success 200 {object} CategoryResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ValidationErrorResponse
// @Router /categories/{id} [put]
// @Router /categories/{id} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}
	var req service.CategoryPatch
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CategoryResponse{Category: category})
}

// Delete godoc
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
