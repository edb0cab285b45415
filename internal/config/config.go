package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"catalogadmin/internal/model"
)

const dotEnvFile = ".env"

// Category delete policies.
const (
	CategoryDeleteRestrict = "restrict"
	CategoryDeleteCascade  = "cascade"
)

// Config holds application level configuration loaded from environment
// variables and, when present, a config.env or .env file.
type Config struct {
	Env         string
	LogLevel    string
	ServerPort  string
	MySQLDSN    string
	DBMaxOpen   int
	DBMaxIdle   int
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	TokenTTL    time.Duration
	SwaggerHost string

	Policy   Policy
	Paginate Paginate
}

// Policy gathers the behaviours that differ between deployments.
type Policy struct {
	// ProductCreateRole is the role required to create products.
	ProductCreateRole model.Role
	// RevokeTokensOnLogin revokes every earlier token of a user when they log in.
	RevokeTokensOnLogin bool
	// CategoryDelete is CategoryDeleteRestrict or CategoryDeleteCascade.
	CategoryDelete string
}

// Paginate bounds list page sizes.
type Paginate struct {
	DefaultPerPage int
	MaxPerPage     int
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	// A .env in the working directory is layered over config.env.
	if _, err := os.Stat(dotEnvFile); err == nil {
		v.SetConfigFile(dotEnvFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", dotEnvFile, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		ServerPort:  v.GetString("SERVER_PORT"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
		DBMaxOpen:   v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdle:   v.GetInt("DB_MAX_IDLE_CONNS"),
		ResetDB:     v.GetBool("RESET_DB"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisDB:     v.GetInt("REDIS_DB"),
		RedisPass:   v.GetString("REDIS_PASSWORD"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		TokenTTL:    v.GetDuration("TOKEN_TTL"),
		SwaggerHost: v.GetString("SWAGGER_HOST"),
		Policy: Policy{
			ProductCreateRole:   model.Role(strings.ToLower(v.GetString("PRODUCT_CREATE_ROLE"))),
			RevokeTokensOnLogin: v.GetBool("REVOKE_TOKENS_ON_LOGIN"),
			CategoryDelete:      strings.ToLower(v.GetString("CATEGORY_DELETE_POLICY")),
		},
		Paginate: Paginate{
			DefaultPerPage: v.GetInt("DEFAULT_PAGE_SIZE"),
			MaxPerPage:     v.GetInt("MAX_PAGE_SIZE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/catalog?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("RESET_DB", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("PRODUCT_CREATE_ROLE", string(model.RoleUser))
	v.SetDefault("REVOKE_TOKENS_ON_LOGIN", true)
	v.SetDefault("CATEGORY_DELETE_POLICY", CategoryDeleteRestrict)
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("MAX_PAGE_SIZE", 100)
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if !c.Policy.ProductCreateRole.Valid() {
		return fmt.Errorf("PRODUCT_CREATE_ROLE must be one of user, admin; got %q", c.Policy.ProductCreateRole)
	}
	switch c.Policy.CategoryDelete {
	case CategoryDeleteRestrict, CategoryDeleteCascade:
	default:
		return fmt.Errorf("CATEGORY_DELETE_POLICY must be restrict or cascade; got %q", c.Policy.CategoryDelete)
	}
	if c.JWTSecret == "" || (!c.IsDevelopment() && c.JWTSecret == "change-me") {
		return fmt.Errorf("JWT_SECRET must be set outside development")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Paginate.DefaultPerPage < 1 || c.Paginate.MaxPerPage < c.Paginate.DefaultPerPage {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.Paginate.DefaultPerPage, c.Paginate.MaxPerPage)
	}
	return nil
}

// CascadeCategoryDelete reports whether deleting a category also deletes its products.
func (c *Config) CascadeCategoryDelete() bool {
	return c.Policy.CategoryDelete == CategoryDeleteCascade
}
