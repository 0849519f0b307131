package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leefowlercu/codedoc/internal/fsutil"
)

// StdinPath selects standard input as the source.
const StdinPath = "-"

var (
	// ErrNoLanguage is returned when the language cannot be inferred from input.
	ErrNoLanguage = errors.New("cannot infer language; pass --language")

	// ErrBinaryInput is returned when the input does not look like source text.
	ErrBinaryInput = errors.New("input does not look like source text")
)

// Source is a snippet read from a file or stdin.
type Source struct {
	Path     string
	Code     string
	Language string
}

// ReadSource reads path, or stdin when path is empty or "-". The language is
// taken from language when set, otherwise from the file extension.
func ReadSource(path, language string, stdin io.Reader) (*Source, error) {
	src := &Source{Path: path, Language: strings.TrimPrefix(language, ".")}

	if path == "" || path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin; %w", err)
		}
		src.Path = StdinPath
		src.Code = string(data)
	} else {
		resolved, err := ResolvePath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q; %w", path, err)
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s; %w", path, err)
		}
		src.Path = resolved
		src.Code = string(data)

		if src.Language == "" {
			src.Language = fsutil.ExtensionTag(resolved)
		}
	}

	if !fsutil.IsText([]byte(src.Code)) {
		return nil, fmt.Errorf("%s: %w", src.Path, ErrBinaryInput)
	}

	if src.Language == "" {
		return nil, ErrNoLanguage
	}

	return src, nil
}

// WriteOutput writes data to path, or to stdout when path is empty or "-".
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == StdinPath {
		_, err := stdout.Write(data)
		return err
	}

	resolved, err := ResolvePath(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q; %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return fmt.Errorf("failed to create output directory; %w", err)
	}
	if err := os.WriteFile(resolved, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s; %w", path, err)
	}
	return nil
}
