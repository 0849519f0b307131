package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SwappableHandler is a slog.Handler whose destination can be replaced at runtime.
// Handlers derived through WithAttrs or WithGroup share the same root, so loggers
// created before a swap (component loggers, request loggers) follow it.
type SwappableHandler struct {
	root *atomic.Pointer[slog.Handler]

	// ops re-derive this handler from the root; empty for the root itself.
	ops   []func(slog.Handler) slog.Handler
	cache atomic.Pointer[derivedHandler]
}

// derivedHandler memoises ops applied to one particular root.
type derivedHandler struct {
	base    *slog.Handler
	handler slog.Handler
}

// NewSwappableHandler creates a handler writing to initial.
func NewSwappableHandler(initial slog.Handler) *SwappableHandler {
	root := &atomic.Pointer[slog.Handler]{}
	root.Store(&initial)
	return &SwappableHandler{root: root}
}

// Swap replaces the destination of sh and of every handler derived from it.
// Safe to call while logging is in progress.
func (sh *SwappableHandler) Swap(next slog.Handler) {
	sh.root.Store(&next)
}

func (sh *SwappableHandler) current() slog.Handler {
	base := sh.root.Load()
	if len(sh.ops) == 0 {
		return *base
	}

	if d := sh.cache.Load(); d != nil && d.base == base {
		return d.handler
	}

	h := *base
	for _, op := range sh.ops {
		h = op(h)
	}
	sh.cache.Store(&derivedHandler{base: base, handler: h})
	return h
}

func (sh *SwappableHandler) derive(op func(slog.Handler) slog.Handler) *SwappableHandler {
	ops := make([]func(slog.Handler) slog.Handler, len(sh.ops), len(sh.ops)+1)
	copy(ops, sh.ops)
	return &SwappableHandler{root: sh.root, ops: append(ops, op)}
}

// Enabled reports whether the current destination handles level.
func (sh *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.current().Enabled(ctx, level)
}

// Handle writes r to the current destination.
func (sh *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return sh.current().Handle(ctx, r)
}

// WithAttrs returns a handler sharing sh's root that adds attrs to every record.
func (sh *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return sh
	}
	return sh.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup returns a handler sharing sh's root that nests attributes under name.
func (sh *SwappableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return sh
	}
	return sh.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}
