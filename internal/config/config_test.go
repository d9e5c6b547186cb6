package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/contacts")
	t.Setenv("JWT_SECRET_KEY", "access")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh")
	t.Setenv("SECRET_EMAIL", "email")
}

func TestLoadConfig_EnvOnlyWithDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 24*time.Hour, cfg.VerificationTTL())
	assert.Equal(t, time.Hour, cfg.UserCacheTTL())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.Origins)
	assert.False(t, cfg.Server.InsecureCookies)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := `
server:
  port: 9000
  env: development
jwt:
  access_ttl_minutes: 15
  secret_key: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, "access", cfg.JWT.SecretKey, "environment wins over file")
}

func TestLoadConfig_MissingSecretsIsError(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/contacts")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "")
	t.Setenv("SECRET_EMAIL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET_KEY")
	assert.Contains(t, err.Error(), "SECRET_EMAIL")
}

func TestValidate_UnsupportedDriver(t *testing.T) {
	cfg := &Config{}
	cfg.Database.DSN = "x"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.SecretKey, cfg.JWT.RefreshSecretKey, cfg.JWT.EmailSecretKey = "a", "b", "c"

	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")
}
