package cmdutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/leefowlercu/codedoc/internal/config"
	"github.com/leefowlercu/codedoc/internal/docgen"
	"github.com/leefowlercu/codedoc/internal/narrator"
	"github.com/leefowlercu/codedoc/internal/providers"
	"github.com/leefowlercu/codedoc/internal/providers/text"
)

// Stack is the documentation pipeline built from configuration.
type Stack struct {
	Registry *providers.Registry
	Provider providers.TextProvider
	Narrator *narrator.Narrator
	Service  *docgen.Service
}

// ProviderOptions maps narrator configuration onto provider options.
func ProviderOptions(cfg *config.NarratorConfig) text.Options {
	return text.Options{
		APIKey:    cfg.ResolveAPIKey(),
		Model:     cfg.ResolveModel(),
		BaseURL:   cfg.BaseURL,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.TimeoutDuration(),
	}
}

// BuildStack wires the configured provider into a narrator and service.
// A provider without credentials is not an error here; the narrator reports
// it on first use.
func BuildStack(cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	registry, err := text.NewRegistry(cfg.Narrator.Provider, ProviderOptions(&cfg.Narrator))
	if err != nil {
		return nil, fmt.Errorf("failed to build providers; %w", err)
	}

	provider, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to select provider; %w", err)
	}

	n := narrator.New(provider, narrator.WithLogger(logger.With("component", "narrator")))
	if err := n.Prepare(context.Background()); err != nil {
		logger.Warn("text provider not ready; generation requests will fail",
			"provider", provider.Name(),
			"error", err,
		)
	}

	svc := docgen.NewService(n,
		docgen.WithDefaultStyle(cfg.Narrator.DefaultStyle),
		docgen.WithLogger(logger.With("component", "docgen")),
	)

	return &Stack{
		Registry: registry,
		Provider: provider,
		Narrator: n,
		Service:  svc,
	}, nil
}

// Close releases provider clients that hold connections.
func (s *Stack) Close() error {
	var firstErr error
	for _, p := range s.Registry.List() {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
