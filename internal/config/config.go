// Package config loads tool settings from config file, environment and
// defaults. Flags override whatever is loaded here.
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings.
type Config struct {
	// Limit bounds how many commits a listing fetches.
	Limit int `mapstructure:"limit"`
	// Backend selects the repository access mechanism: "gitcli" or "native".
	Backend string `mapstructure:"backend"`
	// All lists every recent commit instead of only unpushed ones.
	All bool `mapstructure:"all"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Limit:   20,
		Backend: "gitcli",
	}
}

// Load reads configuration from .cdc.yaml (working directory, then home),
// a .env file when present, and CDC_* environment variables.
func Load(cfgFile string) (*Config, error) {
	// Best effort; most setups have no .env file.
	_ = godotenv.Load()

	v := viper.New()
	def := Default()
	v.SetDefault("limit", def.Limit)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("all", def.All)
	v.SetDefault("verbose", def.Verbose)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".cdc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix("CDC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the tool cannot work with.
func (c *Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	switch c.Backend {
	case "gitcli", "native":
	default:
		return fmt.Errorf("unknown backend %q, expected gitcli or native", c.Backend)
	}
	return nil
}
