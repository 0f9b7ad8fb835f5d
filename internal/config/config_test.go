package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9999"
database:
  url: postgres://localhost/medbook
jwt:
  secret_key: test-secret
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/medbook", cfg.Database.URL)
	// Defaults survive where the file is silent.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_RefusesMissingSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/medbook
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret_key")
}

func TestLoad_RefusesMissingDatabaseURL(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret_key: test-secret
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9999"
database:
  url: postgres://localhost/medbook
jwt:
  secret_key: from-file
`)
	t.Setenv("MEDBOOK_JWT_SECRET_KEY", "from-env")
	t.Setenv("MEDBOOK_SERVER_PORT", "8081")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, "8081", cfg.Server.Port)
}

func TestLoad_CustomTokenDuration(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/medbook
jwt:
  secret_key: test-secret
  access_token_duration: 1h
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenDuration)
}

func TestValidate_RejectsNonPositiveTokenDuration(t *testing.T) {
	cfg := Default()
	cfg.JWT.SecretKey = "test-secret"
	cfg.Database.URL = "postgres://localhost/medbook"
	cfg.JWT.AccessTokenDuration = 0

	assert.Error(t, cfg.Validate())
}
