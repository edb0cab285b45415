package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"catalogadmin/docs"
	"catalogadmin/internal/auth"
	"catalogadmin/internal/config"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/handler"
	"catalogadmin/internal/logger"
	"catalogadmin/internal/middleware"
	"catalogadmin/internal/model"
	"catalogadmin/internal/validator"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Seed       *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	zl zerolog.Logger,
	jwtService *auth.JWTService,
	gate *auth.Gate,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.Handler(zl)
	e.Validator = validator.New()

	e.Use(echomw.RequestID())
	e.Use(logger.RequestLogger(zl))
	e.Use(echomw.Recover())

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	// Every other route requires a live bearer token.
	secured := api.Group("", middleware.JWT(jwtService), middleware.Authenticate(gate))
	admin := middleware.RequireRole(model.RoleAdmin)

	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/user", h.Auth.Me)
	secured.PUT("/user", h.Auth.UpdateMe)

	secured.GET("/categories", h.Categories.List)
	secured.GET("/categories/:id", h.Categories.Get)
	secured.POST("/categories", h.Categories.Create, admin)
	secured.PUT("/categories/:id", h.Categories.Update, admin)
	secured.PATCH("/categories/:id", h.Categories.Update, admin)
	secured.DELETE("/categories/:id", h.Categories.Delete, admin)

	secured.GET("/products", h.Products.List)
	secured.GET("/products/search/:term", h.Products.Search)
	secured.GET("/products/:id", h.Products.Get)
	secured.POST("/products", h.Products.Create, middleware.RequireRole(cfg.Policy.ProductCreateRole))
	secured.PUT("/products/:id", h.Products.Update, admin)
	secured.PATCH("/products/:id", h.Products.Update, admin)
	secured.DELETE("/products/:id", h.Products.Delete, admin)

	users := secured.Group("/users", admin)
	users.GET("", h.Users.ListUsers)
	users.POST("", h.Users.CreateUser)
	users.GET("/:id", h.Users.GetUser)
	users.PUT("/:id", h.Users.UpdateUser)
	users.PATCH("/:id", h.Users.UpdateUser)
	users.DELETE("/:id", h.Users.DeleteUser)

	secured.POST("/admin/seed", h.Seed.Seed, admin)
}
