package cmdutil

import (
	"path/filepath"

	"github.com/leefowlercu/codedoc/internal/config"
)

// ResolvePath expands "~" and returns an absolute, cleaned path.
// Empty input and "-" are returned unchanged.
func ResolvePath(path string) (string, error) {
	if path == "" || path == StdinPath {
		return path, nil
	}

	absPath, err := filepath.Abs(config.ExpandPath(path))
	if err != nil {
		return "", err
	}

	return filepath.Clean(absPath), nil
}
