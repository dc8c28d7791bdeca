package logger

import (
	"sync"

	"github.com/wicklog/wick/backend"
	"github.com/wicklog/wick/core"
)

var (
	defaultBackendOnce sync.Once
	defaultBackend     *backend.Backend
)

// DefaultBackend returns the process-wide shared backend, starting it
// on first use. Loggers built without an explicit backend share it.
func DefaultBackend() *backend.Backend {
	defaultBackendOnce.Do(func() {
		defaultBackend = backend.New(backend.Config{})
	})
	return defaultBackend
}

// Logger is the producing-side frontend (immutable). A logging call
// gates on the level, captures its arguments into an owned record, and
// hands the record to the backend; it performs no I/O and never blocks
// on sinks.
type Logger struct {
	details *core.LoggerDetails
	backend *backend.Backend
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	name    string
	sinks   []core.Sink
	level   core.Level
	btCap   int
	btFlush core.Level
	backend *backend.Backend
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		level:   core.InfoLevel, // Default level
		btFlush: core.ErrorLevel,
	}
}

// WithName sets the logger name rendered by %(logger_name)
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithHandlers attaches sinks; records dispatch to them in this order
func (b *Builder) WithHandlers(sinks ...core.Sink) *Builder {
	b.sinks = append(b.sinks, sinks...)
	return b
}

// WithLevel sets the minimum severity captured
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithBacktrace retains up to capacity records below flushLevel and
// replays them when a record at or above flushLevel is processed
func (b *Builder) WithBacktrace(capacity int, flushLevel core.Level) *Builder {
	b.btCap = capacity
	b.btFlush = flushLevel
	return b
}

// WithBackend routes records to a specific backend instead of the
// shared default
func (b *Builder) WithBackend(be *backend.Backend) *Builder {
	b.backend = be
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	be := b.backend
	if be == nil {
		be = DefaultBackend()
	}
	name := b.name
	if name == "" {
		name = "root"
	}
	return &Logger{
		details: &core.LoggerDetails{
			Name:                name,
			Sinks:               b.sinks,
			Level:               b.level,
			BacktraceCapacity:   b.btCap,
			BacktraceFlushLevel: b.btFlush,
		},
		backend: be,
	}
}

// log captures one call: call-site metadata, promoted arguments, the
// coarse-clock stamp, and the producing goroutine id, then submits.
func (l *Logger) log(level core.Level, template string, args []any) {
	meta := core.SiteMetadata(2, level, template)
	rec := core.NewRecord(l.details, meta, core.Capture(args), core.CoarseNanos())
	l.backend.Submit(rec, core.ThreadID())
}

// Debug logs a debug message. template uses {} placeholders.
func (l *Logger) Debug(template string, args ...any) {
	if core.DebugLevel < l.details.Level {
		return
	}
	l.log(core.DebugLevel, template, args)
}

// Info logs an info message
func (l *Logger) Info(template string, args ...any) {
	if core.InfoLevel < l.details.Level {
		return
	}
	l.log(core.InfoLevel, template, args)
}

// Warn logs a warning message
func (l *Logger) Warn(template string, args ...any) {
	if core.WarnLevel < l.details.Level {
		return
	}
	l.log(core.WarnLevel, template, args)
}

// Error logs an error message
func (l *Logger) Error(template string, args ...any) {
	if core.ErrorLevel < l.details.Level {
		return
	}
	l.log(core.ErrorLevel, template, args)
}

// Critical logs a critical message
func (l *Logger) Critical(template string, args ...any) {
	if core.CriticalLevel < l.details.Level {
		return
	}
	l.log(core.CriticalLevel, template, args)
}

// Flush blocks until every record this logger queued before the call
// has been consumed by the backend.
func (l *Logger) Flush() {
	l.backend.Flush()
}

// Close flushes the backend and closes this logger's sinks. Intended
// for shutdown; the shared backend itself stays up for other loggers.
func (l *Logger) Close() error {
	l.backend.Flush()
	var first error
	for _, s := range l.details.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
