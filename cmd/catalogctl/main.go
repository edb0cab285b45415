package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"catalogadmin/internal/app"
	"catalogadmin/internal/cache"
	"catalogadmin/internal/config"
	"catalogadmin/internal/db"
	"catalogadmin/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "catalogctl",
	Short:        "Catalog admin maintenance tool",
	Long:         "Migrate the schema, load demo data and manage users of the catalog admin API.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// open loads configuration and connects to the database.
func open() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load config: %w", err)
	}
	zl := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{Logger: logger.NewGorm(zl)})
	if err != nil {
		return nil, zl, nil, err
	}
	return cfg, zl, gormDB, nil
}

// openApp wires the application. It shares the server's redis so user and
// token changes made here invalidate what the server cached.
func openApp() (*app.App, func(), error) {
	cfg, zl, gormDB, err := open()
	if err != nil {
		return nil, nil, err
	}
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cleanup := func() {
		_ = cacheClient.Close()
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return app.New(cfg, gormDB, cacheClient, zl), cleanup, nil
}
