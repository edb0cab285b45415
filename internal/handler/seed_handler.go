package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"catalogadmin/internal/seed"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seeder *seed.Seeder
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// Seed godoc
// @Summary Load the demo users, categories and products
// @Description Safe to call repeatedly; only missing rows are created.
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	res, err := h.seeder.Run(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeedResponse{
		Message:    "Seed completed",
		Users:      res.Users,
		Categories: res.Categories,
		Products:   res.Products,
	})
}
