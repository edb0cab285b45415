// Package app assembles repositories, services and handlers into a server.
package app

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"catalogadmin/internal/auth"
	"catalogadmin/internal/cache"
	"catalogadmin/internal/config"
	"catalogadmin/internal/handler"
	"catalogadmin/internal/repository"
	"catalogadmin/internal/router"
	"catalogadmin/internal/seed"
	"catalogadmin/internal/service"
)

// App holds the wired components of a running API.
type App struct {
	Echo   *echo.Echo
	Tokens repository.TokenRepository
	Auth   service.AuthService
	Users  service.UserService
	Seeder *seed.Seeder
	log    zerolog.Logger
}

// New wires every component on top of an open database and cache. The cache
// may be nil.
func New(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client, zl zerolog.Logger) *App {
	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(jwtService, tokenRepo, cacheClient, cfg.TokenTTL)

	// Initialize services
	userService := service.NewUserService(userRepo, tokenStore, cacheClient)
	gate := auth.NewGate(jwtService, tokenStore, userService)
	authService := service.NewAuthService(userRepo, userService, tokenStore, gate, cfg.Policy.RevokeTokensOnLogin)
	categoryService := service.NewCategoryService(categoryRepo, cfg.CascadeCategoryDelete())
	productService := service.NewProductService(productRepo, categoryRepo)
	seeder := seed.New(gormDB)

	// Initialize handlers
	page := handler.Pagination{DefaultPerPage: cfg.Paginate.DefaultPerPage, MaxPerPage: cfg.Paginate.MaxPerPage}
	e := echo.New()
	router.Register(e, cfg, zl, jwtService, gate, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService, page),
		Categories: handler.NewCategoryHandler(categoryService, page),
		Products:   handler.NewProductHandler(productService, page),
		Seed:       handler.NewSeedHandler(seeder),
	})

	return &App{
		Echo:   e,
		Tokens: tokenRepo,
		Auth:   authService,
		Users:  userService,
		Seeder: seeder,
		log:    zl,
	}
}

// PruneTokens deletes expired access tokens every interval until ctx ends.
func (a *App) PruneTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := a.Tokens.DeleteExpired(ctx, now)
			if err != nil {
				a.log.Warn().Err(err).Msg("prune expired tokens")
				continue
			}
			if n > 0 {
				a.log.Info().Int64("count", n).Msg("pruned expired tokens")
			}
		}
	}
}
