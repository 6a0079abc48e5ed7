package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime settings read from .env and STORYCARD_* variables
type Config struct {
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	Proxy           string        `mapstructure:"proxy"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	InstallBrowsers bool          `mapstructure:"install_browsers"`
	LogLevel        string        `mapstructure:"log_level"`
	WorkDir         string        `mapstructure:"work_dir"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// LoadConfig loads .env from the working directory (if present) and then
// reads the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("STORYCARD")
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Every key needs a default, otherwise AutomaticEnv values are not picked
// up by Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("proxy", "")
	v.SetDefault("settle_delay", 2*time.Second)
	v.SetDefault("install_browsers", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("work_dir", "")
}

func validate(cfg *Config) error {
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative, got %s", cfg.SettleDelay)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Proxy != "" {
		u, err := url.Parse(cfg.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid proxy URL: %q", cfg.Proxy)
		}
	}

	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("work dir is not a directory: %s", cfg.WorkDir)
	}

	return nil
}

// ProxyURL returns the parsed proxy, or nil when requests go direct
func (c *Config) ProxyURL() *url.URL {
	if c.Proxy == "" {
		return nil
	}
	u, err := url.Parse(c.Proxy)
	if err != nil {
		return nil
	}
	return u
}

// SlogLevel maps the configured level name onto slog
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
