// Package docgen turns a pasted snippet into a Markdown documentation report.
package docgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leefowlercu/codedoc/internal/composer"
	"github.com/leefowlercu/codedoc/internal/metrics"
	"github.com/leefowlercu/codedoc/internal/narrator"
	"github.com/leefowlercu/codedoc/internal/segmenter"
)

var (
	// ErrInvalidRequest is returned when the language is missing.
	ErrInvalidRequest = errors.New(`missing "code" or "language" in request`)

	// ErrNothingParsed is returned when segmentation yields no units.
	ErrNothingParsed = errors.New("could not parse any code from the provided text")
)

// Request is one documentation job.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Style    string `json:"style,omitempty"`
}

// Response carries the composed document and per-request statistics.
type Response struct {
	Documentation string                   `json:"documentation"`
	Units         []narrator.AnnotatedUnit `json:"-"`
	FailedUnits   int                      `json:"-"`
	Duration      time.Duration            `json:"-"`
}

// Narrator is the narration step used by Service.
type Narrator interface {
	Narrate(ctx context.Context, units []segmenter.Unit, style string) ([]narrator.AnnotatedUnit, error)
}

// Service runs segmentation, narration, and composition for a request.
// It holds no per-request state and is safe for concurrent use when its
// Narrator is.
type Service struct {
	narrator     Narrator
	defaultStyle string
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDefaultStyle sets the style used when a request leaves it empty.
func WithDefaultStyle(style string) ServiceOption {
	return func(s *Service) {
		if style != "" {
			s.defaultStyle = style
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service that narrates through n.
func NewService(n Narrator, opts ...ServiceOption) *Service {
	s := &Service{
		narrator:     n,
		defaultStyle: narrator.DefaultStyle,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Validate checks the required request fields. Empty code is not rejected
// here: it segments to nothing and is reported as ErrNothingParsed.
func (r Request) Validate() error {
	if r.Language == "" {
		return ErrInvalidRequest
	}
	return nil
}

// Segment validates req and returns its units without narrating them.
func (s *Service) Segment(req Request) ([]segmenter.Unit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	units := segmenter.Segment(req.Code, segmenter.Label(req.Language))
	if len(units) == 0 {
		return nil, ErrNothingParsed
	}

	return units, nil
}

// Generate documents req. Errors wrap ErrInvalidRequest, ErrNothingParsed, or
// narrator.ErrNotConfigured where those apply.
func (s *Service) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	units, err := s.Segment(req)
	if err != nil {
		return nil, err
	}

	for _, u := range units {
		metrics.RecordUnit(string(u.Kind))
	}

	style := req.Style
	if style == "" {
		style = s.defaultStyle
	}

	s.logger.Info("generating documentation",
		"language", req.Language,
		"style", style,
		"units", len(units),
	)

	annotated, err := s.narrator.Narrate(ctx, units, style)
	if err != nil {
		if errors.Is(err, narrator.ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("narration failed; %w", err)
	}

	failed := 0
	for _, a := range annotated {
		if a.Failed() {
			failed++
		}
	}

	resp := &Response{
		Documentation: composer.Compose(annotated),
		Units:         annotated,
		FailedUnits:   failed,
		Duration:      time.Since(start),
	}

	s.logger.Info("documentation generated",
		"units", len(annotated),
		"failed_units", failed,
		"duration", resp.Duration,
	)

	return resp, nil
}
