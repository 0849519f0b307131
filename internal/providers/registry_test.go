package providers

import (
	"context"
	"testing"
)

// mockTextProvider implements TextProvider for testing.
type mockTextProvider struct {
	name      string
	available bool
}

func (p *mockTextProvider) Name() string               { return p.name }
func (p *mockTextProvider) Available() bool            { return p.available }
func (p *mockTextProvider) RateLimit() RateLimitConfig { return RateLimitConfig{} }
func (p *mockTextProvider) ModelName() string          { return "mock-model" }
func (p *mockTextProvider) Generate(ctx context.Context, prompt string) (*TextResult, error) {
	return &TextResult{Text: prompt}, nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	p := &mockTextProvider{name: "test", available: true}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Duplicate registration should fail
	if err := r.Register(p); err != ErrProviderExists {
		t.Errorf("expected ErrProviderExists, got %v", err)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	p := &mockTextProvider{name: "google", available: true}
	_ = r.Register(p)

	got, err := r.Get("google")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != p {
		t.Error("Get returned a different provider")
	}

	if _, err := r.Get("missing"); err != ErrProviderNotFound {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestRegistry_Default(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Default(); err != ErrNoAvailableProvider {
		t.Errorf("expected ErrNoAvailableProvider on empty registry, got %v", err)
	}

	_ = r.Register(&mockTextProvider{name: "unavailable", available: false})
	if _, err := r.Default(); err != ErrNoAvailableProvider {
		t.Errorf("expected ErrNoAvailableProvider with only unavailable providers, got %v", err)
	}

	_ = r.Register(&mockTextProvider{name: "openai", available: true})
	_ = r.Register(&mockTextProvider{name: "google", available: true})

	got, err := r.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if got.Name() != "openai" {
		t.Errorf("Default() = %q, want first available %q", got.Name(), "openai")
	}
}

func TestRegistry_SetDefault(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockTextProvider{name: "openai", available: true})
	_ = r.Register(&mockTextProvider{name: "google", available: true})

	if err := r.SetDefault("google"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}

	got, _ := r.Default()
	if got.Name() != "google" {
		t.Errorf("Default() = %q, want %q", got.Name(), "google")
	}

	if err := r.SetDefault("missing"); err != ErrProviderNotFound {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestRegistry_ListAndAvailable(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockTextProvider{name: "openai", available: false})
	_ = r.Register(&mockTextProvider{name: "anthropic", available: true})
	_ = r.Register(&mockTextProvider{name: "google", available: true})

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d providers, want 3", len(list))
	}
	if list[0].Name() != "anthropic" || list[2].Name() != "openai" {
		t.Errorf("List() not sorted by name: %q, %q, %q", list[0].Name(), list[1].Name(), list[2].Name())
	}

	available := r.Available()
	if len(available) != 2 {
		t.Errorf("Available() returned %d providers, want 2", len(available))
	}
}
