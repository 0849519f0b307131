// Package providers defines the text-generation provider contract used for narration.
package providers

import (
	"context"
	"time"
)

// Provider is the base interface for all providers.
type Provider interface {
	// Name returns the provider's unique identifier.
	Name() string

	// Available returns true if the provider is configured and ready.
	Available() bool

	// RateLimit returns the rate limit configuration for this provider.
	RateLimit() RateLimitConfig
}

// Initializer is implemented by providers that must finish setup, such as
// creating an API client, before Generate can succeed. A failed Init is not
// cached; the next call tries again.
type Initializer interface {
	Init(ctx context.Context) error
}

// RateLimitConfig defines rate limiting parameters for a provider.
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// TextProvider generates free-form text from a prompt.
type TextProvider interface {
	Provider

	// Generate sends prompt to the model and returns its text response.
	Generate(ctx context.Context, prompt string) (*TextResult, error)

	// ModelName returns the model identifier used by this provider.
	ModelName() string
}

// TextResult is a single generation response.
type TextResult struct {
	// Text is the raw text returned by the model.
	Text string `json:"text"`

	// ProviderName is the name of the provider that generated this result.
	ProviderName string `json:"provider_name"`

	// ModelName is the specific model used.
	ModelName string `json:"model_name"`

	// TokensUsed is the number of tokens consumed, when the API reports it.
	TokensUsed int `json:"tokens_used"`

	// GeneratedAt is when the response was received.
	GeneratedAt time.Time `json:"generated_at"`
}
