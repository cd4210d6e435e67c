package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	cleanEnv(t)

	t.Setenv("ENDPOINT_ADDR", ":8080")
	t.Setenv("DATABASE_DSN", "memory://")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_TTL", "90")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, "memory://", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func Test_parseEnv_IgnoresMalformedNumbers(t *testing.T) {
	cleanEnv(t)
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("BCRYPT_COST", "-1")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func Test_parseEnv_LoadsDotEnvFile(t *testing.T) {
	cleanEnv(t)
	require.NoError(t, os.Unsetenv("SECRET_KEY"))
	require.NoError(t, os.Unsetenv("TOKEN_TTL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_KEY=dotenv-secret\nTOKEN_TTL=45m\n"), 0o600))
	envFile = path
	t.Cleanup(func() {
		_ = os.Unsetenv("SECRET_KEY")
		_ = os.Unsetenv("TOKEN_TTL")
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "dotenv-secret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.TokenValidityDuration)
}
