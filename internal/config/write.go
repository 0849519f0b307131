package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Marshal.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Marshal renders cfg in the given format. The API key is never rendered.
func Marshal(cfg *Config, format string) ([]byte, error) {
	redacted := *cfg
	redacted.Narrator.APIKey = nil

	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(&redacted)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config as yaml; %w", err)
		}
		return data, nil
	case FormatTOML:
		data, err := toml.Marshal(&redacted)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config as toml; %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q; use %s or %s", format, FormatYAML, FormatTOML)
	}
}

// Write writes the configuration as YAML to the specified path.
// Creates the directory with 0700 permissions if it doesn't exist.
// Writes the file with 0600 permissions.
func Write(cfg *Config, path string) error {
	path = expandHome(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s; %w", dir, err)
	}

	data, err := Marshal(cfg, FormatYAML)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("# codedoc configuration\n# Generated: %s\n\n", time.Now().Format(time.RFC3339))
	content := append([]byte(header), data...)

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s; %w", path, err)
	}

	return nil
}
