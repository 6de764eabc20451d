package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Logger wraps slog.Logger with cleanup of the files it writes to.
type Logger struct {
	*slog.Logger
	cleanupFuncs []func() error
}

// Close cleans up resources
func (l *Logger) Close() error {
	for _, cleanup := range l.cleanupFuncs {
		if err := cleanup(); err != nil {
			return err
		}
	}
	return nil
}

// With returns a new logger with additional attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:       l.Logger.With(args...),
		cleanupFuncs: l.cleanupFuncs,
	}
}

// Option configures a logger
type Option func(*config) error

type config struct {
	level        slog.Level
	outputs      []io.Writer
	console      bool
	cleanupFuncs []func() error
}

// New creates a logger. Records go as JSON to every configured output and,
// with Console, as text to stderr. A logger with neither discards everything,
// since the shell's own stdout and stderr belong to the user.
func New(opts ...Option) (*Logger, error) {
	cfg := &config{
		level: slog.LevelInfo,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			for _, cleanup := range cfg.cleanupFuncs {
				_ = cleanup()
			}
			return nil, err
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var handlers []slog.Handler
	if len(cfg.outputs) > 0 {
		handlers = append(handlers, slog.NewJSONHandler(io.MultiWriter(cfg.outputs...), handlerOpts))
	}
	if cfg.console {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, handlerOpts))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &Logger{
		Logger:       slog.New(slogmulti.Fanout(handlers...)),
		cleanupFuncs: cfg.cleanupFuncs,
	}, nil
}

// Must wraps New and panics on error
func Must(opts ...Option) *Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return Must()
}

// Level sets the log level
func Level(level slog.Level) Option {
	return func(c *config) error {
		c.level = level
		return nil
	}
}

// Debug sets debug level
func Debug() Option {
	return Level(slog.LevelDebug)
}

// Console logs text records to stderr
func Console() Option {
	return func(c *config) error {
		c.console = true
		return nil
	}
}

// File logs to a file (path is required)
func File(path string) Option {
	return func(c *config) error {
		if path == "" {
			return fmt.Errorf("log file path is required")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", path, err)
		}

		c.outputs = append(c.outputs, file)
		c.cleanupFuncs = append(c.cleanupFuncs, file.Close)
		return nil
	}
}
