package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/codedoc/codedoc.log"

	// Server configuration defaults.
	DefaultServerHTTPPort        = 5000
	DefaultServerHTTPBind        = "127.0.0.1"
	DefaultServerShutdownTimeout = 30 // seconds

	// Narrator configuration defaults.
	DefaultNarratorProvider     = "google"
	DefaultNarratorModel        = "gemini-1.5-flash-latest"
	DefaultNarratorRateLimit    = 0
	DefaultNarratorTimeout      = 120 // seconds
	DefaultNarratorDefaultStyle = "simple"
	DefaultNarratorAPIKeyEnv    = "GOOGLE_API_KEY"
)

// DefaultServerCORSOrigins allows any origin on the generate endpoint.
var DefaultServerCORSOrigins = []string{"*"}

// defaultAPIKeyEnvs maps each provider to the environment variable holding its key.
var defaultAPIKeyEnvs = map[string]string{
	"google":    "GOOGLE_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// DefaultAPIKeyEnv returns the conventional API key variable for provider.
func DefaultAPIKeyEnv(provider string) string {
	return defaultAPIKeyEnvs[provider]
}

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Server: ServerConfig{
			HTTPPort:        DefaultServerHTTPPort,
			HTTPBind:        DefaultServerHTTPBind,
			ShutdownTimeout: DefaultServerShutdownTimeout,
			CORSOrigins:     append([]string(nil), DefaultServerCORSOrigins...),
		},
		Narrator: NarratorConfig{
			Provider:     DefaultNarratorProvider,
			Model:        DefaultNarratorModel,
			RateLimit:    DefaultNarratorRateLimit,
			Timeout:      DefaultNarratorTimeout,
			DefaultStyle: DefaultNarratorDefaultStyle,
			APIKeyEnv:    DefaultNarratorAPIKeyEnv,
		},
	}
}

// setViperDefaults registers all default configuration values with a viper instance.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)

	// Server defaults
	v.SetDefault("server.http_port", DefaultServerHTTPPort)
	v.SetDefault("server.http_bind", DefaultServerHTTPBind)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.cors_origins", DefaultServerCORSOrigins)

	// Narrator defaults
	v.SetDefault("narrator.provider", DefaultNarratorProvider)
	v.SetDefault("narrator.model", DefaultNarratorModel)
	v.SetDefault("narrator.rate_limit", DefaultNarratorRateLimit)
	v.SetDefault("narrator.timeout", DefaultNarratorTimeout)
	v.SetDefault("narrator.default_style", DefaultNarratorDefaultStyle)
	v.SetDefault("narrator.base_url", "")
	v.SetDefault("narrator.api_key", "")
	v.SetDefault("narrator.api_key_env", DefaultNarratorAPIKeyEnv)
}
