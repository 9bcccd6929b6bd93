// Package logging provides category-scoped logging for spark.
// Each subsystem logs under its own category so a session trace can be
// filtered down to parsing, dispatch, or action execution in isolation.
// Before Initialize is called every logger is a silent no-op, which keeps
// library code free of nil checks and keeps tests quiet.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryBoot     Category = "boot"     // startup and wiring
	CategoryParser   Category = "parser"   // utterance -> intent classification
	CategoryDispatch Category = "dispatch" // routing and confidence gating
	CategoryActions  Category = "actions"  // handler execution
	CategoryTimer    Category = "timer"    // timer lifecycle
	CategoryFallback Category = "fallback" // conversational fallback calls
	CategoryHistory  Category = "history"  // command history store
	CategoryConfig   Category = "config"   // config load/reload
)

// Logger wraps a zap sugared logger bound to one category.
type Logger struct {
	s *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	base    *zap.SugaredLogger
	loggers = make(map[Category]*Logger)
)

// Initialize installs the shared zap backend. level is one of
// debug/info/warn/error (anything else means info). If dir is non-empty,
// logs are appended to <dir>/spark.log; otherwise they go to stderr.
func Initialize(level, dir string) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{filepath.Join(dir, "spark.log")}
		cfg.ErrorOutputPaths = cfg.OutputPaths
	}

	logger, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	base = logger.Sugar()
	loggers = make(map[Category]*Logger)
	mu.Unlock()

	Get(CategoryBoot).Info("logging initialized (level=%s)", parseLevel(level))
	return nil
}

// InitializeWith installs an externally constructed zap logger. Used by the
// CLI so --verbose and the category loggers share one backend.
func InitializeWith(logger *zap.Logger) {
	mu.Lock()
	base = logger.Sugar()
	loggers = make(map[Category]*Logger)
	mu.Unlock()
}

// Sync flushes the underlying backend, if any.
func Sync() {
	mu.RLock()
	b := base
	mu.RUnlock()
	if b != nil {
		_ = b.Sync()
	}
}

// Get returns the logger for a category.
func Get(cat Category) *Logger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	b := base
	mu.RUnlock()

	if b == nil {
		return &Logger{} // no-op until Initialize
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	l := &Logger{s: b.Named(string(cat))}
	loggers[cat] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l != nil && l.s != nil {
		l.s.Debugf(format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l != nil && l.s != nil {
		l.s.Infof(format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l != nil && l.s != nil {
		l.s.Warnf(format, args...)
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l != nil && l.s != nil {
		l.s.Errorf(format, args...)
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Package-level convenience helpers, one pair per hot category.

func Parser(format string, args ...interface{})        { Get(CategoryParser).Info(format, args...) }
func ParserDebug(format string, args ...interface{})   { Get(CategoryParser).Debug(format, args...) }
func Dispatch(format string, args ...interface{})      { Get(CategoryDispatch).Info(format, args...) }
func DispatchDebug(format string, args ...interface{}) { Get(CategoryDispatch).Debug(format, args...) }
func Actions(format string, args ...interface{})       { Get(CategoryActions).Info(format, args...) }
func ActionsDebug(format string, args ...interface{})  { Get(CategoryActions).Debug(format, args...) }
func Timer(format string, args ...interface{})         { Get(CategoryTimer).Info(format, args...) }
func TimerDebug(format string, args ...interface{})    { Get(CategoryTimer).Debug(format, args...) }
func Fallback(format string, args ...interface{})      { Get(CategoryFallback).Info(format, args...) }
func FallbackDebug(format string, args ...interface{}) { Get(CategoryFallback).Debug(format, args...) }
func History(format string, args ...interface{})       { Get(CategoryHistory).Info(format, args...) }
func Config(format string, args ...interface{})        { Get(CategoryConfig).Info(format, args...) }
