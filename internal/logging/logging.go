package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits.
const (
	MaxFileSizeMB  = 10
	MaxFileBackups = 5
	MaxFileAgeDays = 28
)

// Manager handles logger lifecycle including bootstrap-to-full mode transitions.
// Components should obtain a logger via Logger() and use it for all logging.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	console io.Writer
	logFile io.WriteCloser
	level   *slog.LevelVar
	mu      sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConsole sets the writer used for text output. Defaults to os.Stderr.
func WithConsole(w io.Writer) ManagerOption {
	return func(m *Manager) {
		m.console = w
	}
}

// NewManager creates a logging manager in bootstrap mode.
// Bootstrap mode writes text to the console only.
// Call Upgrade() after config is available to enable file logging.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		console: os.Stderr,
		level:   new(slog.LevelVar),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.level.Set(DefaultLevel)

	m.handler = NewSwappableHandler(m.consoleHandler())
	m.logger = slog.New(m.handler)

	return m
}

func (m *Manager) consoleHandler() slog.Handler {
	return slog.NewTextHandler(m.console, &slog.HandlerOptions{Level: m.level})
}

// Logger returns the current logger instance.
// The returned logger is stable across Upgrade calls.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Level returns the current log level.
func (m *Manager) Level() slog.Level {
	return m.level.Level()
}

// Upgrade transitions from bootstrap mode (console only) to full mode
// (console text + rotated JSON file). Call after config is loaded.
// Returns error if the log file cannot be created.
func (m *Manager) Upgrade(logFilePath string, level slog.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q; %w", dir, err)
	}

	// lumberjack opens lazily; fail here rather than on the first write.
	probe, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q; %w", logFilePath, err)
	}
	_ = probe.Close()

	if m.logFile != nil {
		_ = m.logFile.Close()
	}
	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    MaxFileSizeMB,
		MaxBackups: MaxFileBackups,
		MaxAge:     MaxFileAgeDays,
	}
	m.logFile = rotator

	m.level.Set(level)

	m.handler.Swap(slogmulti.Fanout(
		m.consoleHandler(),
		slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: m.level}),
	))

	return nil
}

// SetLevel changes the log level at runtime.
// Applies immediately to all future log calls.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Close cleanly shuts down the logger, closing any open file handles.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.logFile == nil {
		return nil
	}
	err := m.logFile.Close()
	m.logFile = nil
	m.handler.Swap(m.consoleHandler())
	return err
}
