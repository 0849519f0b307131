package text

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/leefowlercu/codedoc/internal/providers"
	"github.com/leefowlercu/codedoc/internal/version"
)

const (
	googleDefaultModel = "gemini-1.5-flash-latest"
	googleAPIKeyEnv    = "GOOGLE_API_KEY"
)

// GoogleProvider implements TextProvider using the Gemini API.
type GoogleProvider struct {
	apiKey          string
	model           string
	endpoint        string
	rateLimiter     *providers.RateLimiter
	rateLimitConfig *providers.RateLimitConfig

	clientMu  sync.Mutex
	client    *genai.Client
	newClient func(ctx context.Context, opts ...option.ClientOption) (*genai.Client, error)
}

// GoogleOption configures the GoogleProvider.
type GoogleOption func(*GoogleProvider)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(p *GoogleProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithGoogleAPIKey overrides the key read from GOOGLE_API_KEY.
func WithGoogleAPIKey(key string) GoogleOption {
	return func(p *GoogleProvider) {
		if key != "" {
			p.apiKey = key
		}
	}
}

// WithGoogleEndpoint overrides the API endpoint.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(p *GoogleProvider) {
		p.endpoint = endpoint
	}
}

// WithGoogleRateLimit sets a custom rate limit configuration.
func WithGoogleRateLimit(requestsPerMinute int) GoogleOption {
	return func(p *GoogleProvider) {
		p.rateLimitConfig = &providers.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			BurstSize:         max(1, requestsPerMinute/5),
		}
	}
}

// NewGoogleProvider creates a new Gemini text provider.
// The API client is created on first use.
func NewGoogleProvider(opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		apiKey:    os.Getenv(googleAPIKeyEnv),
		model:     googleDefaultModel,
		newClient: genai.NewClient,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.rateLimiter = providers.NewRateLimiter(p.RateLimit())

	return p
}

// Name returns the provider's unique identifier.
func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// Available returns true if the provider is configured and ready.
func (p *GoogleProvider) Available() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit configuration.
func (p *GoogleProvider) RateLimit() providers.RateLimitConfig {
	if p.rateLimitConfig != nil {
		return *p.rateLimitConfig
	}
	return providers.RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         10,
	}
}

// ModelName returns the configured model name.
func (p *GoogleProvider) ModelName() string {
	return p.model
}

// Generate sends prompt to Gemini and joins the text parts of the first candidate.
func (p *GoogleProvider) Generate(ctx context.Context, prompt string) (*providers.TextResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("google provider not available; %s not set", googleAPIKeyEnv)
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	model := client.GenerativeModel(p.model)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("API request failed; %w", err)
	}

	text, tokens, err := googleResponseText(resp)
	if err != nil {
		return nil, err
	}

	return &providers.TextResult{
		Text:         text,
		ProviderName: p.Name(),
		ModelName:    p.model,
		TokensUsed:   tokens,
		GeneratedAt:  time.Now(),
	}, nil
}

// googleResponseText joins the text parts of the first candidate and reports
// the total token count when the API includes usage metadata.
func googleResponseText(resp *genai.GenerateContentResponse) (string, int, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", 0, fmt.Errorf("no response content returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", 0, fmt.Errorf("no text content in response")
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return b.String(), tokens, nil
}

// Init creates the API client if it does not exist yet.
func (p *GoogleProvider) Init(ctx context.Context) error {
	if !p.Available() {
		return fmt.Errorf("google provider not available; %s not set", googleAPIKeyEnv)
	}
	_, err := p.getClient(ctx)
	return err
}

// Close releases the underlying API client, if one was created.
func (p *GoogleProvider) Close() error {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *GoogleProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	opts := []option.ClientOption{
		option.WithAPIKey(p.apiKey),
		option.WithUserAgent(version.UserAgent()),
	}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	client, err := p.newClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client; %w", err)
	}
	p.client = client

	return client, nil
}
