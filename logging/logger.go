// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer SceneLogger with contextual
// helpers (scene, participant, component) and domain specific logging helpers
// for generation calls and broadcast rounds.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for scenemesh. This allows
// users to provide their own logger implementation or use the built-in
// adapters. Components receive a Logger at construction; none of them hold a
// process-global instance.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// SceneLogger wraps slog.Logger adding contextual cloning helpers and domain
// convenience methods. It is cheap to copy via the With* methods.
type SceneLogger struct {
	logger      *slog.Logger
	level       LogLevel
	context     map[string]any
	component   string
	scene       string
	participant string
}

// LoggerConfig configures construction of a SceneLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	Scene       string
	Participant string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, AddSource: true}
}

// NewLogger builds a SceneLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *SceneLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &SceneLogger{
		logger:      slog.New(handler),
		level:       cfg.Level,
		context:     map[string]any{},
		component:   cfg.Component,
		scene:       cfg.Scene,
		participant: cfg.Participant,
	}
}

// NewSlogLogger creates a new SceneLogger with the specified level and format.
func NewSlogLogger(level LogLevel, format string, addSource bool) *SceneLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SceneLogger) clone() *SceneLogger {
	nl := *l
	nl.context = map[string]any{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute attached to every log entry.
func (l *SceneLogger) WithContext(key string, value any) *SceneLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (memory, agent, scene, model).
func (l *SceneLogger) WithComponent(c string) *SceneLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithParticipant attaches scene and participant identifiers.
func (l *SceneLogger) WithParticipant(scene, participant string) *SceneLogger {
	nl := l.clone()
	nl.scene = scene
	nl.participant = participant
	return nl
}

func (l *SceneLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+4)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.scene != "" {
		attrs = append(attrs, slog.String("scene", l.scene))
	}
	if l.participant != "" {
		attrs = append(attrs, slog.String("participant", l.participant))
	}
	attrs = append(attrs, slog.Time("timestamp", time.Now()))
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *SceneLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	attrs := l.buildAttrs()
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Debug logs at debug level.
func (l *SceneLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *SceneLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *SceneLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *SceneLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogGeneration records model call latency and success for one reply attempt.
func (l *SceneLogger) LogGeneration(model string, dur time.Duration, success bool, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.String("model", model), slog.Duration("duration", dur), slog.Bool("success", success))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Generation completed"
	if !success {
		level = slog.LevelError
		msg = "Generation failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogBroadcast records aggregate metrics for one broadcast round.
func (l *SceneLogger) LogBroadcast(sender string, targets, replies int, dur time.Duration) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("sender", sender),
		slog.Int("targets", targets),
		slog.Int("replies", replies),
		slog.Duration("duration", dur),
	)
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Broadcast completed", attrs...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
