package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CODEDOC"

var (
	// configFilePath stores the path to the loaded config file
	configFilePath string

	// mu guards current and listeners
	mu        sync.RWMutex
	current   *Config
	listeners []func(*Config)
)

// Init initializes the configuration subsystem.
// It loads a .env file from the working directory when present, then
// searches for configuration files in priority order:
//  1. Directory specified by CODEDOC_CONFIG_DIR environment variable
//  2. ~/.config/codedoc/
//  3. Current working directory (.)
//
// If no config file is found, defaults are used.
// If a config file exists but is invalid or unreadable, Init returns an error.
func Init() error {
	if err := loadDotEnv(".env"); err != nil {
		return err
	}

	configureViper(viper.GetViper())

	if envPath := os.Getenv(EnvPrefix + "_CONFIG_DIR"); envPath != "" {
		viper.AddConfigPath(envPath)
	}
	if home := os.Getenv("HOME"); home != "" {
		viper.AddConfigPath(filepath.Join(home, ".config", "codedoc"))
	}
	viper.AddConfigPath(".")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config; %w", err)
		}
		configFilePath = ""
	} else {
		configFilePath = viper.ConfigFileUsed()
	}

	cfg, err := unmarshalConfig(viper.GetViper())
	if err != nil {
		return err
	}
	setCurrent(cfg)

	slog.Info("config initialized", "file", configFilePath)

	if configFilePath != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			slog.Info("config file changed", "file", e.Name, "op", e.Op.String())
			_ = refresh()
		})
		viper.WatchConfig()
	}

	return nil
}

// configureViper applies the shared file type, env and default settings.
func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
}

// loadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		slog.Debug("loaded environment file", "path", path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s; %w", path, err)
}

// Get returns the current typed configuration.
// Before Init it returns the defaults.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		cfg := NewDefaultConfig()
		return &cfg
	}
	return current
}

// OnChange registers fn to run after every successful reload.
func OnChange(fn func(*Config)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

func setCurrent(cfg *Config) {
	mu.Lock()
	current = cfg
	fns := append([]func(*Config){}, listeners...)
	mu.Unlock()

	for _, fn := range fns {
		fn(cfg)
	}
}

// refresh re-unmarshals viper state into the typed config.
// On validation failure the previous config is retained.
func refresh() error {
	cfg, err := unmarshalConfig(viper.GetViper())
	if err != nil {
		slog.Error("config reload rejected; retaining previous values", "error", err)
		return err
	}
	setCurrent(cfg)
	return nil
}

// ConfigFilePath returns the path to the loaded config file,
// or empty string if using defaults only.
func ConfigFilePath() string {
	return configFilePath
}

// Reset clears the configuration state for testing purposes.
func Reset() {
	viper.Reset()
	configFilePath = ""

	mu.Lock()
	current = nil
	listeners = nil
	mu.Unlock()
}

// ExpandPath expands a leading ~ in path to the user's home directory.
func ExpandPath(path string) string {
	return expandHome(path)
}

// expandHome expands a leading ~ in path to the user's home directory.
// Only expands "~" alone or "~/..." patterns. Patterns like "~user" are not expanded.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' {
		return path
	}

	home := resolveHomeDir()
	if home == "" {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}

func resolveHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// Reload re-reads the configuration from disk.
// On failure, the previous configuration is retained.
func Reload() error {
	if configFilePath == "" {
		return nil
	}

	// ReadInConfig only replaces viper's file layer after a successful parse.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("config reload failed; retaining previous values", "error", err)
		return fmt.Errorf("failed to reload config; %w", err)
	}

	if err := refresh(); err != nil {
		return fmt.Errorf("failed to reload config; %w", err)
	}

	slog.Info("config reloaded", "file", viper.ConfigFileUsed())
	return nil
}
