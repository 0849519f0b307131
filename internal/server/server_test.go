package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/codedoc/internal/docgen"
	"github.com/leefowlercu/codedoc/internal/narrator"
)

type fakeGenerator struct {
	resp  *docgen.Response
	err   error
	calls []docgen.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req docgen.Request) (*docgen.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestServer(gen Generator, opts ...Option) *Server {
	return NewServer(gen, Config{Port: 0, Bind: "127.0.0.1"}, opts...)
}

func postGenerate(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, GeneratePath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestServer_Generate_Success(t *testing.T) {
	gen := &fakeGenerator{resp: &docgen.Response{Documentation: "# AI-Generated Code Documentation\n\n"}}
	srv := newTestServer(gen)

	w := postGenerate(t, srv, `{"code":"def add(a, b):\n    return a + b","language":"py","style":"detailed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"documentation": "# AI-Generated Code Documentation\n\n"}, decodeBody(t, w))

	require.Len(t, gen.calls, 1)
	assert.Equal(t, docgen.Request{Code: "def add(a, b):\n    return a + b", Language: "py", Style: "detailed"}, gen.calls[0])
}

func TestServer_Generate_StyleOptional(t *testing.T) {
	gen := &fakeGenerator{resp: &docgen.Response{Documentation: "doc"}}
	srv := newTestServer(gen)

	w := postGenerate(t, srv, `{"code":"x","language":"js"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "", gen.calls[0].Style)

	w = postGenerate(t, srv, `{"code":"x","language":"js","style":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", gen.calls[1].Style)
}

func TestServer_Generate_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"code": "x",`},
		{"empty body", ``},
		{"json array", `["code", "language"]`},
		{"json null", `null`},
		{"missing code key", `{"language":"py"}`},
		{"missing language key", `{"code":"x"}`},
		{"non-string code", `{"code":42,"language":"py"}`},
		{"non-string style", `{"code":"x","language":"py","style":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			srv := newTestServer(gen)

			w := postGenerate(t, srv, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, MsgInvalidPayload, decodeBody(t, w)["error"])
			assert.Empty(t, gen.calls)
		})
	}
}

func TestServer_Generate_ErrorMapping(t *testing.T) {
	notConfigured := fmt.Errorf("google provider has no API key; %w", narrator.ErrNotConfigured)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"missing fields", docgen.ErrInvalidRequest, http.StatusBadRequest, `Missing "code" or "language" in request.`},
		{"nothing parsed", docgen.ErrNothingParsed, http.StatusBadRequest, "Could not parse any code from the provided text."},
		{"not configured", notConfigured, http.StatusInternalServerError, notConfigured.Error()},
		{"other failure", errors.New("boom"), http.StatusInternalServerError, "An error occurred during generation: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeGenerator{err: tt.err})

			w := postGenerate(t, srv, `{"code":"x","language":"py"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
		})
	}
}

func TestServer_Generate_MissingFields(t *testing.T) {
	srv := newTestServer(docgen.NewService(nil))

	for _, body := range []string{
		`{"code":null,"language":"py"}`,
		`{"code":"x","language":null}`,
		`{"code":"x","language":""}`,
	} {
		w := postGenerate(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, MsgMissingFields, decodeBody(t, w)["error"], body)
	}
}

func TestServer_Generate_EmptyCode(t *testing.T) {
	srv := newTestServer(docgen.NewService(nil))

	for _, body := range []string{
		`{"code":"","language":"py"}`,
		`{"code":"","language":"js"}`,
		`{"code":"   \n  ","language":"py"}`,
	} {
		w := postGenerate(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, MsgNothingParsed, decodeBody(t, w)["error"], body)
	}
}

func TestServer_Generate_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, GeneratePath, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(&fakeGenerator{resp: &docgen.Response{Documentation: "doc"}})

	preflight := httptest.NewRequest(http.MethodOptions, GeneratePath, nil)
	preflight.Header.Set("Origin", "http://localhost:8080")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, preflight)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodPost, GeneratePath, strings.NewReader(`{"code":"x","language":"js"}`))
	req.Header.Set("Origin", "http://localhost:8080")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CORS_RestrictedOrigins(t *testing.T) {
	srv := NewServer(&fakeGenerator{resp: &docgen.Response{}}, Config{
		Bind:        "127.0.0.1",
		CORSOrigins: []string{"https://docs.example.com"},
	})

	req := httptest.NewRequest(http.MethodPost, GeneratePath, strings.NewReader(`{"code":"x","language":"js"}`))
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, GeneratePath, strings.NewReader(`{"code":"x","language":"js"}`))
	req.Header.Set("Origin", "https://docs.example.com")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://docs.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "client-supplied", w.Header().Get(RequestIDHeader))
}

type panicGenerator struct{}

func (panicGenerator) Generate(context.Context, docgen.Request) (*docgen.Response, error) {
	panic("generator exploded")
}

func TestServer_RecoversFromPanic(t *testing.T) {
	srv := newTestServer(panicGenerator{})

	w := postGenerate(t, srv, `{"code":"x","language":"py"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp LivezResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "alive", resp.Status)
}

func TestServer_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		readiness  ReadinessFunc
		wantStatus int
		wantReady  bool
	}{
		{"no check", nil, http.StatusOK, true},
		{"ready", func() error { return nil }, http.StatusOK, true},
		{"not configured", func() error { return narrator.ErrNotConfigured }, http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeGenerator{}, WithReadiness(tt.readiness))

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ReadyzResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantReady, resp.Ready)
			if !tt.wantReady {
				assert.Equal(t, narrator.ErrNotConfigured.Error(), resp.Error)
			}
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("codedoc_requests_total 1\n"))
	})

	srv := newTestServer(&fakeGenerator{}, WithMetricsHandler(metricsHandler))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codedoc_requests_total")

	bare := newTestServer(&fakeGenerator{})
	w = httptest.NewRecorder()
	bare.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv := newTestServer(&fakeGenerator{resp: &docgen.Response{Documentation: "doc"}})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(context.Background(), ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-errCh)
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (b *blockingGenerator) Generate(ctx context.Context, _ docgen.Request) (*docgen.Response, error) {
	close(b.started)
	<-b.release
	b.ctxErr <- ctx.Err()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &docgen.Response{Documentation: "doc"}, nil
}

func TestServer_Shutdown_DrainsInFlightAfterSignal(t *testing.T) {
	gen := &blockingGenerator{
		started: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	srv := newTestServer(gen)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	signalCtx, stop := context.WithCancel(context.Background())
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(signalCtx, ln) }()

	type result struct {
		status int
		err    error
	}
	respCh := make(chan result, 1)
	go func() {
		body := strings.NewReader(`{"code":"def f():\n    return 1\n","language":"python"}`)
		resp, err := http.Post("http://"+ln.Addr().String()+"/generate", "application/json", body)
		if err != nil {
			respCh <- result{err: err}
			return
		}
		_ = resp.Body.Close()
		respCh <- result{status: resp.StatusCode}
	}()

	select {
	case <-gen.started:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the generator")
	}

	// Simulate SIGTERM: the signal context ends, then shutdown begins.
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	shutdownErr := make(chan error, 1)
	go func() { shutdownErr <- srv.Shutdown(shutdownCtx) }()

	close(gen.release)

	assert.NoError(t, <-gen.ctxErr)
	res := <-respCh
	require.NoError(t, res.err)
	assert.Equal(t, http.StatusOK, res.status)
	require.NoError(t, <-shutdownErr)
	require.NoError(t, <-errCh)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(&fakeGenerator{})
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_Addr(t *testing.T) {
	srv := NewServer(&fakeGenerator{}, Config{Bind: "0.0.0.0", Port: 5000})
	assert.Equal(t, "0.0.0.0:5000", srv.Addr())
}
