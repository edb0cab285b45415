package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, model.RoleUser, cfg.Policy.ProductCreateRole)
	assert.True(t, cfg.Policy.RevokeTokensOnLogin)
	assert.Equal(t, CategoryDeleteRestrict, cfg.Policy.CategoryDelete)
	assert.Equal(t, 10, cfg.Paginate.DefaultPerPage)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PRODUCT_CREATE_ROLE", "ADMIN")
	t.Setenv("REVOKE_TOKENS_ON_LOGIN", "false")
	t.Setenv("CATEGORY_DELETE_POLICY", "cascade")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, model.RoleAdmin, cfg.Policy.ProductCreateRole)
	assert.False(t, cfg.Policy.RevokeTokensOnLogin)
	assert.Equal(t, CategoryDeleteCascade, cfg.Policy.CategoryDelete)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestLoad_RejectsBadPolicies(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown product role", "PRODUCT_CREATE_ROLE", "guest"},
		{"unknown delete policy", "CATEGORY_DELETE_POLICY", "orphan"},
		{"default secret in production", "APP_ENV", "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.env"), []byte("SERVER_PORT=9100\nLOG_LEVEL=debug\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9200\nCATEGORY_DELETE_POLICY=cascade\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9200", cfg.ServerPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, CategoryDeleteCascade, cfg.Policy.CategoryDelete)

	t.Setenv("SERVER_PORT", "9300")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "9300", cfg.ServerPort)
}
