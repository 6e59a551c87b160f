package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults matching DefaultConfig
	v.SetDefault("output", "text")
	v.SetDefault("lift_to_null", true)
	v.SetDefault("time_layout", time.RFC3339)
	v.SetDefault("db_url", "")

	// Bind environment variables with MATCHBOX_ prefix
	v.SetEnvPrefix("MATCHBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Output:     v.GetString("output"),
		LiftToNull: v.GetBool("lift_to_null"),
		TimeLayout: v.GetString("time_layout"),
		DBURL:      v.GetString("db_url"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks the output mode, the time layout and the database
// URL scheme before any command runs.
func validateConfig(cfg *Config) error {
	switch cfg.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be \"text\" or \"json\", got %q", cfg.Output)
	}

	if cfg.TimeLayout == "" {
		return fmt.Errorf("time_layout must not be empty")
	}
	// Round-trip a reference instant so a broken layout fails at startup
	// instead of on the first time-typed argument.
	ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if _, err := time.Parse(cfg.TimeLayout, ref.Format(cfg.TimeLayout)); err != nil {
		return fmt.Errorf("time_layout %q is not a valid reference layout: %w", cfg.TimeLayout, err)
	}

	if cfg.DBURL != "" && !strings.Contains(cfg.DBURL, "://") {
		return fmt.Errorf("db_url %q is missing a scheme (sqlite:// or postgres://)", cfg.DBURL)
	}

	return nil
}
