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
	t.Run("typed values from environment", func(t *testing.T) {
		t.Setenv("PHONEBOOK_ACCESS_TOKEN_VALIDITY_DURATION", "30m")
		t.Setenv("PHONEBOOK_REFRESH_TOKEN_VALIDITY_DURATION", "48h")
		t.Setenv("PHONEBOOK_BCRYPT_COST", "12")
		t.Setenv("PHONEBOOK_AVATAR_MAX_BYTES", "1024")
		t.Setenv("PHONEBOOK_REDIS_DB", "3")
		t.Setenv("PHONEBOOK_STATS_CACHE_TTL", "10s")
		t.Setenv("PHONEBOOK_PURGE_INTERVAL", "2h")
		t.Setenv("PHONEBOOK_LOG_FORMAT", "zap")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg, "")

		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 48*time.Hour, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, int64(1024), cfg.AvatarMaxBytes)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.Equal(t, 10*time.Second, cfg.StatsCacheTTL)
		assert.Equal(t, 2*time.Hour, cfg.PurgeInterval)
		assert.Equal(t, "zap", cfg.LogFormat)
	})

	t.Run("unset variables keep values", func(t *testing.T) {
		cfg := &Config{HTTPAddr: ":1", SecretKey: "keep"}
		parseEnv(cfg, filepath.Join(t.TempDir(), "missing.env"))

		assert.Equal(t, ":1", cfg.HTTPAddr)
		assert.Equal(t, "keep", cfg.SecretKey)
	})

	t.Run("process env wins over env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.env")
		require.NoError(t, os.WriteFile(path, []byte("PHONEBOOK_S3_BUCKET=from-file\n"), 0o600))
		t.Setenv("PHONEBOOK_S3_BUCKET", "from-env")

		cfg := &Config{}
		parseEnv(cfg, path)

		assert.Equal(t, "from-env", cfg.S3Bucket)
	})

	t.Run("malformed env file panics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.env")
		require.NoError(t, os.WriteFile(path, []byte("PHONEBOOK_X='unterminated\n"), 0o600))

		require.Panics(t, func() { parseEnv(&Config{}, path) })
	})
}
