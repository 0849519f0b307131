package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestSwappableHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	if sh.Enabled(ctx, slog.LevelInfo) {
		t.Error("Enabled(Info) = true at Warn level")
	}
	if !sh.Enabled(ctx, slog.LevelError) {
		t.Error("Enabled(Error) = false at Warn level")
	}

	sh.Swap(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if !sh.Enabled(ctx, slog.LevelDebug) {
		t.Error("Enabled(Debug) = false after swapping to a Debug handler")
	}
}

func TestSwappableHandler_Swap(t *testing.T) {
	var before, after bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&before, nil))
	logger := slog.New(sh)

	logger.Info("bootstrap")
	sh.Swap(slog.NewTextHandler(&after, nil))
	logger.Info("upgraded")

	if !strings.Contains(before.String(), "bootstrap") || strings.Contains(before.String(), "upgraded") {
		t.Errorf("bootstrap handler got %q", before.String())
	}
	if !strings.Contains(after.String(), "upgraded") || strings.Contains(after.String(), "bootstrap") {
		t.Errorf("upgraded handler got %q", after.String())
	}
}

func TestSwappableHandler_DerivedFollowsSwap(t *testing.T) {
	var before, after bytes.Buffer
	sh := NewSwappableHandler(slog.NewTextHandler(&before, nil))

	component := slog.New(sh).With("component", "narrator").WithGroup("unit")
	component.Info("narrating", "name", "add")

	sh.Swap(slog.NewJSONHandler(&after, nil))
	component.Info("narrated", "name", "add")

	if !strings.Contains(before.String(), "component=narrator") || !strings.Contains(before.String(), "unit.name=add") {
		t.Errorf("pre-swap output = %q", before.String())
	}

	out := after.String()
	if !strings.Contains(out, `"component":"narrator"`) {
		t.Errorf("post-swap output lost attrs: %q", out)
	}
	if !strings.Contains(out, `"unit":{"name":"add"}`) {
		t.Errorf("post-swap output lost group: %q", out)
	}
}

func TestSwappableHandler_SwapThroughDerived(t *testing.T) {
	var first, second bytes.Buffer
	root := NewSwappableHandler(slog.NewTextHandler(&first, nil))
	child := root.WithAttrs([]slog.Attr{slog.String("k", "v")}).(*SwappableHandler)

	child.Swap(slog.NewTextHandler(&second, nil))
	slog.New(root).Info("from root")

	if !strings.Contains(second.String(), "from root") {
		t.Errorf("swap through a derived handler did not reach the root; got %q", second.String())
	}
}

func TestSwappableHandler_EmptyDerivations(t *testing.T) {
	sh := NewSwappableHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))

	if sh.WithAttrs(nil) != slog.Handler(sh) {
		t.Error("WithAttrs(nil) should return the receiver")
	}
	if sh.WithGroup("") != slog.Handler(sh) {
		t.Error(`WithGroup("") should return the receiver`)
	}
}

func TestSwappableHandler_ConcurrentSwap(t *testing.T) {
	var mu sync.Mutex
	var buf bytes.Buffer
	w := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	})

	sh := NewSwappableHandler(slog.NewTextHandler(w, nil))
	logger := slog.New(sh).With("request_id", "abc")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info("tick")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		sh.Swap(slog.NewTextHandler(w, nil))
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if got := strings.Count(buf.String(), "request_id=abc"); got != 400 {
		t.Errorf("logged %d records with attrs, want 400", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
