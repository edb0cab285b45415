// Package middleware adapts the access control gate to echo.
package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"catalogadmin/internal/auth"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
)

// Context keys set by Authenticate.
const (
	CurrentUserKey = "current_user"
	TokenIDKey     = "token_id"
	jwtContextKey  = "jwt"
)

// JWT extracts the bearer token and verifies its signature and expiry.
// Every failure is reported as apperrors.ErrUnauthenticated.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    jwtService.Secret(),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    jwtContextKey,
		TokenLookup:   "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrUnauthenticated
		},
	})
}

// Authenticate resolves the verified token to a live user through the gate.
// It must run after JWT.
func Authenticate(gate *auth.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(jwtContextKey).(*jwt.Token)
			if !ok {
				return apperrors.ErrUnauthenticated
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return apperrors.ErrUnauthenticated
			}

			user, err := gate.Authenticate(c.Request().Context(), claims)
			if err != nil {
				return err
			}

			c.Set(CurrentUserKey, user)
			c.Set(TokenIDKey, claims.ID)
			return next(c)
		}
	}
}

// RequireRole rejects authenticated callers whose role does not satisfy
// required. It must run after Authenticate.
func RequireRole(required model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperrors.ErrUnauthenticated
			}
			if err := auth.Authorize(user.Role, required); err != nil {
				log.Info().
					Uint("user_id", user.ID).
					Str("role", user.Role.String()).
					Str("required", required.String()).
					Str("path", c.Path()).
					Msg("forbidden")
				return err
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil outside Authenticate.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(CurrentUserKey).(*model.User)
	return user
}

// TokenID returns the id of the token the request authenticated with.
func TokenID(c echo.Context) string {
	id, _ := c.Get(TokenIDKey).(string)
	return id
}
