package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/auth"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
)

func ok(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		user     *model.User
		required model.Role
		wantErr  error
	}{
		{"admin on admin route", &model.User{ID: 1, Role: model.RoleAdmin}, model.RoleAdmin, nil},
		{"admin on user route", &model.User{ID: 1, Role: model.RoleAdmin}, model.RoleUser, nil},
		{"user on user route", &model.User{ID: 2, Role: model.RoleUser}, model.RoleUser, nil},
		{"user on admin route", &model.User{ID: 2, Role: model.RoleUser}, model.RoleAdmin, apperrors.ErrForbidden},
		{"no user", nil, model.RoleUser, apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.user != nil {
				c.Set(CurrentUserKey, tt.user)
			}

			err := RequireRole(tt.required)(ok)(c)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}

func TestJWT_RejectsAsUnauthenticated(t *testing.T) {
	svc := auth.NewJWTService("middleware-secret")
	now := time.Now()
	valid, err := svc.Sign(7, auth.NewTokenID(), now, now.Add(time.Hour))
	require.NoError(t, err)
	expired, err := svc.Sign(7, auth.NewTokenID(), now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	foreign, err := auth.NewJWTService("other-secret").Sign(7, auth.NewTokenID(), now, now.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{"valid bearer", "Bearer " + valid, true},
		{"missing header", "", false},
		{"wrong scheme", "Basic " + valid, false},
		{"expired", "Bearer " + expired, false},
		{"foreign signature", "Bearer " + foreign, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := JWT(svc)(func(c echo.Context) error {
				token, isToken := c.Get(jwtContextKey).(*jwt.Token)
				require.True(t, isToken)
				claims, isClaims := token.Claims.(*auth.Claims)
				require.True(t, isClaims)
				assert.Equal(t, uint(7), claims.UserID)
				return nil
			})(c)

			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
			}
		})
	}
}

func TestCurrentUserOutsideChain(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
	assert.Empty(t, TokenID(c))
}
