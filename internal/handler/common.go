package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
)

// Pagination bounds list page sizes.
type Pagination struct {
	DefaultPerPage int
	MaxPerPage     int
}

func (p Pagination) query(c echo.Context) model.ListQuery {
	q := model.ListQuery{
		Page:    1,
		PerPage: p.DefaultPerPage,
		Search:  strings.TrimSpace(c.QueryParam("search")),
	}
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && n > 0 {
		q.PerPage = n
	}
	if p.MaxPerPage > 0 && q.PerPage > p.MaxPerPage {
		q.PerPage = p.MaxPerPage
	}
	if q.PerPage <= 0 {
		q.PerPage = 10
	}
	return q
}

// pathID parses the :id parameter. Ids that cannot exist yield notFound.
func pathID(c echo.Context, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}

// bindAndValidate decodes the JSON body into dst and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperrors.FieldError("body", "The request body must be valid JSON.")
	}
	return c.Validate(dst)
}
