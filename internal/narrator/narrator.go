// Package narrator asks a text provider to explain each documentable unit.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leefowlercu/codedoc/internal/metrics"
	"github.com/leefowlercu/codedoc/internal/providers"
	"github.com/leefowlercu/codedoc/internal/segmenter"
)

// ErrNotConfigured is returned before any unit is processed when the provider
// cannot be used.
var ErrNotConfigured = errors.New("the text provider is not initialized; check the API key and server logs")

// ErrorPrefix starts every explanation recorded for a failed unit.
const ErrorPrefix = "Error: Could not generate documentation from the AI. Details: "

// AnnotatedUnit is a unit paired with its explanation.
type AnnotatedUnit struct {
	segmenter.Unit

	// Explanation is the provider's trimmed answer or an ErrorPrefix message.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Failed reports whether the explanation records a narration failure.
func (a AnnotatedUnit) Failed() bool {
	return strings.HasPrefix(a.Explanation, "Error:")
}

// Narrator explains units one at a time through a text provider.
type Narrator struct {
	provider providers.TextProvider
	logger   *slog.Logger
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithLogger sets the logger used for per-unit diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Narrator) {
		n.logger = logger
	}
}

// New creates a Narrator backed by provider. A nil provider is allowed; Narrate
// then fails with ErrNotConfigured.
func New(provider providers.TextProvider, opts ...Option) *Narrator {
	n := &Narrator{
		provider: provider,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Check returns an error wrapping ErrNotConfigured if the provider cannot be used.
func (n *Narrator) Check() error {
	if n.provider == nil {
		return ErrNotConfigured
	}
	if !n.provider.Available() {
		return fmt.Errorf("%s provider has no API key; %w", n.provider.Name(), ErrNotConfigured)
	}
	return nil
}

// Prepare runs Check and then, for providers that need it, finishes provider
// setup. Setup failures wrap ErrNotConfigured.
func (n *Narrator) Prepare(ctx context.Context) error {
	if err := n.Check(); err != nil {
		return err
	}

	initializer, ok := n.provider.(providers.Initializer)
	if !ok {
		return nil
	}
	if err := initializer.Init(ctx); err != nil {
		n.logger.Error("text provider initialization failed",
			"provider", n.provider.Name(),
			"error", err,
		)
		return fmt.Errorf("%s provider failed to initialize: %v; %w", n.provider.Name(), err, ErrNotConfigured)
	}

	return nil
}

// Provider returns the backing provider, which may be nil.
func (n *Narrator) Provider() providers.TextProvider {
	return n.provider
}

// Narrate explains each unit in order. A failing unit gets an ErrorPrefix
// explanation and processing continues; the only returned error comes from
// Prepare, which runs before any unit is sent.
func (n *Narrator) Narrate(ctx context.Context, units []segmenter.Unit, style string) ([]AnnotatedUnit, error) {
	if err := n.Prepare(ctx); err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedUnit, 0, len(units))
	for i, unit := range units {
		annotated = append(annotated, AnnotatedUnit{
			Unit:        unit,
			Explanation: n.explain(ctx, i, unit, style),
		})
	}

	return annotated, nil
}

func (n *Narrator) explain(ctx context.Context, index int, unit segmenter.Unit, style string) string {
	prompt := BuildPrompt(unit, style)
	promptTokens := segmenter.EstimateTokens(prompt)
	name := n.provider.Name()

	start := time.Now()
	result, err := n.provider.Generate(ctx, prompt)
	duration := time.Since(start)
	if err == nil && result == nil {
		err = errors.New("provider returned no result")
	}

	usedTokens := 0
	if result != nil {
		usedTokens = result.TokensUsed
	}
	metrics.RecordProviderRequest(name, duration, promptTokens, usedTokens, err)

	if err != nil {
		n.logger.Error("narration failed",
			"provider", name,
			"unit", unit.Name,
			"index", index,
			"error", err,
		)
		return ErrorPrefix + err.Error()
	}

	n.logger.Debug("unit narrated",
		"provider", name,
		"unit", unit.Name,
		"kind", unit.Kind,
		"prompt_tokens", promptTokens,
		"tokens_used", usedTokens,
		"duration", duration,
	)

	return strings.TrimSpace(result.Text)
}
