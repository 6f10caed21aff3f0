package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesLayering(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","db_driver":"sqlite","rate_limit_per_minute":50}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("# local overrides\nAPP_PORT=9100\nJWT_SECRET=\"s3cret\"\n"), 0o600))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env")) })

	assert.Equal(t, "9100", get("APP_PORT", ""), ".env must override app.json")
	assert.Equal(t, "sqlite", get("DB_DRIVER", ""))
	assert.Equal(t, "s3cret", get("JWT_SECRET", ""))
	assert.Equal(t, "50", get("RATE_LIMIT_PER_MINUTE", ""))
	assert.Equal(t, defaultMongoDatabase, get("MONGO_DATABASE", ""))
}

func TestProcessEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("MONGO_DATABASE=fromfile\n"), 0o600))
	t.Setenv("MONGO_DATABASE", "fromenv")

	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env")) })

	assert.Equal(t, "fromenv", get("MONGO_DATABASE", ""))
}

func TestMissingFilesKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "a.json"), filepath.Join(dir, "b.env")))

	assert.Equal(t, defaultJWTSecret, get("JWT_SECRET", ""))
	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
}

func TestParseTTL(t *testing.T) {
	cases := map[string]time.Duration{
		"":      time.Hour,
		"7d":    7 * 24 * time.Hour,
		"90m":   90 * time.Minute,
		"bogus": time.Hour,
		"-1h":   time.Hour,
		"0d":    time.Hour,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseTTL(in, time.Hour), "input %q", in)
	}
}
