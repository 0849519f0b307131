package config

import (
	"os"
	"time"
)

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel string         `yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
	LogFile  string         `yaml:"log_file" toml:"log_file" mapstructure:"log_file"`
	Server   ServerConfig   `yaml:"server" toml:"server" mapstructure:"server"`
	Narrator NarratorConfig `yaml:"narrator" toml:"narrator" mapstructure:"narrator"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	HTTPPort        int      `yaml:"http_port" toml:"http_port" mapstructure:"http_port"`
	HTTPBind        string   `yaml:"http_bind" toml:"http_bind" mapstructure:"http_bind"`
	ShutdownTimeout int      `yaml:"shutdown_timeout" toml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
	CORSOrigins     []string `yaml:"cors_origins,flow" toml:"cors_origins" mapstructure:"cors_origins"`
}

// NarratorConfig holds text provider configuration.
type NarratorConfig struct {
	Provider     string  `yaml:"provider" toml:"provider" mapstructure:"provider"`
	Model        string  `yaml:"model" toml:"model" mapstructure:"model"`
	RateLimit    int     `yaml:"rate_limit" toml:"rate_limit" mapstructure:"rate_limit"` // requests per minute, 0 = provider default
	Timeout      int     `yaml:"timeout" toml:"timeout" mapstructure:"timeout"`          // seconds
	DefaultStyle string  `yaml:"default_style" toml:"default_style" mapstructure:"default_style"`
	BaseURL      string  `yaml:"base_url,omitempty" toml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey       *string `yaml:"api_key,omitempty" toml:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv    string  `yaml:"api_key_env" toml:"api_key_env" mapstructure:"api_key_env"`
}

// ResolveAPIKey returns the API key from config or falls back to environment variable.
// When the provider is changed but api_key_env is left at its default, the
// provider's conventional variable is used instead.
func (c *NarratorConfig) ResolveAPIKey() string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	env := c.APIKeyEnv
	if env == "" || (env == DefaultNarratorAPIKeyEnv && c.Provider != "" && c.Provider != DefaultNarratorProvider) {
		env = DefaultAPIKeyEnv(c.Provider)
	}
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

// ResolveModel returns the configured model, or empty when the default
// Gemini model is left in place for a different provider.
func (c *NarratorConfig) ResolveModel() string {
	if c.Model == DefaultNarratorModel && c.Provider != DefaultNarratorProvider {
		return ""
	}
	return c.Model
}

// TimeoutDuration returns the per-call provider timeout.
func (c *NarratorConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ShutdownTimeoutDuration returns the graceful shutdown timeout.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}
