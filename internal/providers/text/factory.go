// Package text provides TextProvider implementations for hosted model APIs.
package text

import (
	"fmt"
	"net/http"
	"time"

	"github.com/leefowlercu/codedoc/internal/providers"
)

// Provider names accepted by New.
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	maxOutputTokens = 2048
	temperature     = 0.2
)

// Options carries the settings shared by every provider.
// Empty fields keep the provider's own defaults.
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	RateLimit int
	Timeout   time.Duration
}

// Names returns the provider names accepted by New.
func Names() []string {
	return []string{ProviderAnthropic, ProviderGoogle, ProviderOpenAI}
}

// New builds the named provider from opts.
func New(name string, opts Options) (providers.TextProvider, error) {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	switch name {
	case ProviderGoogle:
		googleOpts := []GoogleOption{
			WithGoogleAPIKey(opts.APIKey),
			WithGoogleModel(opts.Model),
			WithGoogleEndpoint(opts.BaseURL),
		}
		if opts.RateLimit > 0 {
			googleOpts = append(googleOpts, WithGoogleRateLimit(opts.RateLimit))
		}
		return NewGoogleProvider(googleOpts...), nil

	case ProviderOpenAI:
		openaiOpts := []OpenAIOption{
			WithOpenAIAPIKey(opts.APIKey),
			WithOpenAIModel(opts.Model),
			WithOpenAIBaseURL(opts.BaseURL),
			WithOpenAIHTTPClient(httpClient),
		}
		if opts.RateLimit > 0 {
			openaiOpts = append(openaiOpts, WithOpenAIRateLimit(opts.RateLimit))
		}
		return NewOpenAIProvider(openaiOpts...), nil

	case ProviderAnthropic:
		anthropicOpts := []AnthropicOption{
			WithAnthropicAPIKey(opts.APIKey),
			WithAnthropicModel(opts.Model),
			WithAnthropicBaseURL(opts.BaseURL),
			WithAnthropicHTTPClient(httpClient),
		}
		if opts.RateLimit > 0 {
			anthropicOpts = append(anthropicOpts, WithAnthropicRateLimit(opts.RateLimit))
		}
		return NewAnthropicProvider(anthropicOpts...), nil

	default:
		return nil, fmt.Errorf("unknown provider %q; %w", name, providers.ErrProviderNotFound)
	}
}

// NewRegistry builds every known provider from opts and marks name as the default.
// opts apply only to the named provider; the others read their own environment keys.
func NewRegistry(name string, opts Options) (*providers.Registry, error) {
	registry := providers.NewRegistry()

	for _, n := range Names() {
		var (
			p   providers.TextProvider
			err error
		)
		if n == name {
			p, err = New(n, opts)
		} else {
			p, err = New(n, Options{Timeout: opts.Timeout})
		}
		if err != nil {
			return nil, err
		}
		if err := registry.Register(p); err != nil {
			return nil, fmt.Errorf("failed to register provider %q; %w", n, err)
		}
	}

	if err := registry.SetDefault(name); err != nil {
		return nil, fmt.Errorf("unknown provider %q; %w", name, err)
	}

	return registry, nil
}
