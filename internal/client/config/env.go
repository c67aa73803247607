package config

import "github.com/spf13/viper"

// EnvPrefix keeps CLI variables apart from the server's PHONEBOOK_* ones.
const EnvPrefix = "PHONEBOOK_CLI"

func parseEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if v.IsSet("server_url") {
		cfg.ServerURL = v.GetString("server_url")
	}
	if v.IsSet("request_timeout") {
		cfg.RequestTimeout = v.GetDuration("request_timeout")
	}
}
