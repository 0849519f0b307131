package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leefowlercu/codedoc/internal/logging"
	"github.com/leefowlercu/codedoc/internal/providers/text"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: %s; got %q", strings.Join(logging.LevelNames, ", "), cfg.LogLevel),
		})
	}

	// Validate server config
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.http_port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Server.HTTPPort),
		})
	}

	if cfg.Server.HTTPBind == "" {
		errs = append(errs, ValidationError{
			Field:   "server.http_bind",
			Message: "must not be empty",
		})
	}

	if cfg.Server.ShutdownTimeout < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.shutdown_timeout",
			Message: fmt.Sprintf("must be at least 1 second, got %d", cfg.Server.ShutdownTimeout),
		})
	}

	// Validate narrator config
	names := text.Names()
	if cfg.Narrator.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "narrator.provider",
			Message: "must not be empty",
		})
	} else if !contains(names, cfg.Narrator.Provider) {
		errs = append(errs, ValidationError{
			Field:   "narrator.provider",
			Message: fmt.Sprintf("must be one of: %s; got %q", strings.Join(names, ", "), cfg.Narrator.Provider),
		})
	}

	if cfg.Narrator.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "narrator.model",
			Message: "must not be empty",
		})
	}

	if cfg.Narrator.RateLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "narrator.rate_limit",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Narrator.RateLimit),
		})
	}

	if cfg.Narrator.Timeout < 1 {
		errs = append(errs, ValidationError{
			Field:   "narrator.timeout",
			Message: fmt.Sprintf("must be at least 1 second, got %d", cfg.Narrator.Timeout),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
