package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFromPath reads configuration from a specific file path without
// touching the process-wide configuration.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	configureViper(v)
	v.SetConfigFile(expandHome(path))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from %s; %w", path, err)
	}

	return unmarshalConfig(v)
}

// LoadWithDefaults returns configuration using defaults and environment
// overrides only.
func LoadWithDefaults() (*Config, error) {
	v := viper.New()
	configureViper(v)
	return unmarshalConfig(v)
}

// unmarshalConfig converts viper config to typed Config struct.
func unmarshalConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}

	if cfg.Narrator.APIKey != nil && *cfg.Narrator.APIKey == "" {
		cfg.Narrator.APIKey = nil
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
