// Package testutil provides testing utilities for isolated test environments.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/codedoc/internal/config"
)

// providerKeyEnvs are cleared so tests never reach a real provider.
var providerKeyEnvs = []string{"GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"}

// TestEnv provides an isolated test environment with its own config directory.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
}

// NewTestEnv creates an isolated test environment and initializes config from it.
// HOME, the working directory, and provider keys are all redirected so that
// neither a user config nor a .env file leaks in. Cleanup is automatic.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create test config dir: %v", err)
	}

	t.Setenv("HOME", root)
	t.Setenv("CODEDOC_CONFIG_DIR", configDir)
	t.Setenv("CODEDOC_LOG_FILE", filepath.Join(configDir, "codedoc.log"))
	for _, key := range providerKeyEnvs {
		t.Setenv(key, "")
	}

	origDir, _ := os.Getwd()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("failed to chdir to test root: %v", err)
	}

	config.Reset()
	if err := config.Init(); err != nil {
		t.Fatalf("failed to initialize test config: %v", err)
	}

	t.Cleanup(func() {
		config.Reset()
		_ = os.Chdir(origDir)
	})

	return &TestEnv{t: t, ConfigDir: configDir}
}

// WriteConfig writes content as the environment's config.yaml and reinitializes config.
func (e *TestEnv) WriteConfig(content string) string {
	e.t.Helper()

	path := filepath.Join(e.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}

	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to reinitialize config: %v", err)
	}
	return path
}

// CreateTestFile creates a file with the given content in a fresh temp dir.
// Returns the absolute path to the created file.
func (e *TestEnv) CreateTestFile(name, content string) string {
	e.t.Helper()

	filePath := filepath.Join(e.t.TempDir(), name)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to create test file %s: %v", filePath, err)
	}
	return filePath
}
