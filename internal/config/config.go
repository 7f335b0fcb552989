package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Session  SessionConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig selects and tunes the authentication provider.
type AuthConfig struct {
	Provider    string        `mapstructure:"provider"` // local | remote
	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// SessionConfig controls the on-disk session cache.
type SessionConfig struct {
	Persist bool `mapstructure:"persist"`
}

// Load reads configuration from file and env. Env var overrides use prefix TASKDECK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "taskdeck", "taskdeck.db"))
	v.SetDefault("auth.provider", "local")
	v.SetDefault("auth.base_url", "")
	v.SetDefault("auth.http_timeout", "10s")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "720h")
	v.SetDefault("session.persist", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TASKDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "taskdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TASKDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Auth.Provider {
	case "local":
	case "remote":
		if c.Auth.BaseURL == "" {
			return fmt.Errorf("auth.base_url is required when auth.provider is remote")
		}
	default:
		return fmt.Errorf("unknown auth.provider %q (want local or remote)", c.Auth.Provider)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}
