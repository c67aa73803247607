package config

import "time"

// Config holds runtime settings for the phonebook CLI.
type Config struct {
	// ServerURL is the base URL of the phonebook HTTP API.
	ServerURL string
	// RequestTimeout bounds a single HTTP call.
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the JSON file, the environment and
// finally flags. Invalid input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
