package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "catalogadmin/docs" // swagger docs

	"catalogadmin/internal/app"
	"catalogadmin/internal/cache"
	"catalogadmin/internal/config"
	"catalogadmin/internal/db"
	"catalogadmin/internal/logger"
)

const (
	shutdownTimeout    = 10 * time.Second
	tokenPruneInterval = time.Hour
)

// @title Catalog Admin API
// @version 1.0
// @description Catalog administration API with users, categories, products and bearer token authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	zl := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{
		MaxOpenConns: cfg.DBMaxOpen,
		MaxIdleConns: cfg.DBMaxIdle,
		Logger:       logger.NewGorm(zl),
	})
	if err != nil {
		zl.Fatal().Err(err).Msg("database init")
	}

	if cfg.ResetDB {
		zl.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			zl.Fatal().Err(err).Msg("reset database")
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		zl.Fatal().Err(err).Msg("migrate database")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cacheClient.Ping(ctx); err != nil {
		zl.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, running without cache")
	}

	a := app.New(cfg, gormDB, cacheClient, zl)
	go a.PruneTokens(ctx, tokenPruneInterval)

	addr := ":" + cfg.ServerPort
	go func() {
		zl.Info().Str("addr", addr).Str("swagger", "http://localhost"+addr+"/swagger/index.html").Msg("server starting")
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	zl.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		zl.Error().Err(err).Msg("server shutdown")
	}
	zl.Info().Msg("server stopped")
}
