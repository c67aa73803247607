package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. PHONEBOOK_HTTP_ADDR.
const EnvPrefix = "PHONEBOOK"

// parseEnv overlays config with PHONEBOOK_* environment variables. When
// envFile names an existing file it is loaded first; variables already set in
// the process environment win over the file. A malformed .env file panics.
func parseEnv(config *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	strs := map[string]*string{
		"http_addr":          &config.HTTPAddr,
		"grpc_health_addr":   &config.GRPCHealthAddr,
		"database_dsn":       &config.DatabaseDSN,
		"secret_key":         &config.SecretKey,
		"s3_root_user":       &config.S3RootUser,
		"s3_root_password":   &config.S3RootPassword,
		"s3_bucket":          &config.S3Bucket,
		"s3_region":          &config.S3Region,
		"s3_base_endpoint":   &config.S3BaseEndpoint,
		"s3_public_base_url": &config.S3PublicBaseURL,
		"redis_addr":         &config.RedisAddr,
		"redis_password":     &config.RedisPassword,
		"log_format":         &config.LogFormat,
		"log_level":          &config.LogLevel,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	if v.IsSet("access_token_validity_duration") {
		config.AccessTokenValidityDuration = v.GetDuration("access_token_validity_duration")
	}
	if v.IsSet("refresh_token_validity_duration") {
		config.RefreshTokenValidityDuration = v.GetDuration("refresh_token_validity_duration")
	}
	if v.IsSet("stats_cache_ttl") {
		config.StatsCacheTTL = v.GetDuration("stats_cache_ttl")
	}
	if v.IsSet("purge_interval") {
		config.PurgeInterval = v.GetDuration("purge_interval")
	}
	if v.IsSet("bcrypt_cost") {
		config.BcryptCost = v.GetInt("bcrypt_cost")
	}
	if v.IsSet("avatar_max_bytes") {
		config.AvatarMaxBytes = v.GetInt64("avatar_max_bytes")
	}
	if v.IsSet("redis_db") {
		config.RedisDB = v.GetInt("redis_db")
	}
}
