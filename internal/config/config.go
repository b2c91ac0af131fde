package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	APIKey             string        `mapstructure:"owm_api_key"`
	BaseURL            string        `mapstructure:"owm_base_url"`
	StationsPath       string        `mapstructure:"owm_stations_path"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "owm")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("owm_api_key", "")
	v.SetDefault("owm_base_url", "https://api.openweathermap.org")
	v.SetDefault("owm_stations_path", "/data/3.0/stations")
	v.SetDefault("user_agent", "pyowm-go")
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/stations.db")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.StationsPath = "/" + strings.Trim(strings.TrimSpace(cfg.StationsPath), "/")

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid owm_base_url %q (must be an absolute URL)", cfg.BaseURL)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	return nil
}

// StationsURL is the absolute Stations API root.
func (cfg *Config) StationsURL() string {
	return cfg.BaseURL + cfg.StationsPath
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	if cfg.APIKey != "" {
		cfg.APIKey = "***"
	}
	return cfg
}
