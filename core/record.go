package core

import (
	"fmt"
	"os"
	"time"
	"unsafe"
)

// Renderer is the render contract a sink's formatter must satisfy. The
// returned buffer is owned by the renderer and valid only until its
// next Render call.
type Renderer interface {
	Render(timestamp int64, threadID, loggerName string, meta *Metadata, args []Arg) ([]byte, error)
}

// Sink is an output destination. Every sink owns its own formatter;
// records render once per sink because sinks may use different layout
// patterns.
type Sink interface {
	// Formatter returns the renderer owned by this sink.
	Formatter() Renderer

	// Write emits one rendered record. The timestamp is passed through
	// for sinks that need it (e.g. time-based file naming).
	Write(p []byte, ts time.Time) error

	// Close flushes and releases the sink.
	Close() error
}

// LevelWriter is an optional interface for sinks whose writes depend
// on the record's severity, such as a colorizing console sink. When a
// sink implements it, record dispatch prefers WriteLevel over Write.
type LevelWriter interface {
	WriteLevel(p []byte, ts time.Time, level Level) error
}

// ErrorSink is an optional interface for sinks that want failed writes
// and render failures reported on their own error channel instead of
// the process-wide fallback.
type ErrorSink interface {
	ReportError(err error)
}

// LoggerDetails is the shared, immutable configuration a record keeps
// a reference to: the logger's name, its attached sinks in attachment
// order, and the backtrace settings. Lifetime is the program's; records
// never own it.
type LoggerDetails struct {
	Name                string
	Sinks               []Sink
	Level               Level
	BacktraceCapacity   int
	BacktraceFlushLevel Level
}

// ProcessContext carries the backend collaborators into record
// processing: the producing goroutine's id, the injected timestamp
// resolver, and the backtrace storage shared by all loggers.
type ProcessContext struct {
	ThreadID  string
	ResolveTS func(Record) int64
	Backtrace *BacktraceStorage
}

// Record is one captured logging event. It is built on the producing
// goroutine, handed to the backend as an opaque value, and consumed
// exactly once on the worker goroutine.
type Record interface {
	// Clone returns an independently owned copy with the same logger
	// reference and a deep copy of the captured arguments.
	Clone() Record

	// EncodedSize reports the bytes needed to store this record. It
	// depends only on the argument-list shape, never on values, so the
	// transport can size slots before values are inspected.
	EncodedSize() int

	// Logger returns the owning logger's shared configuration.
	Logger() *LoggerDetails

	// Level returns the call site's severity.
	Level() Level

	// CaptureNanos returns the raw clock reading taken at capture
	// time. The backend's timestamp resolver maps it to a real epoch
	// timestamp.
	CaptureNanos() int64

	// Process renders the record through every attached sink and then
	// flushes the logger's backtrace if this record's severity meets
	// the flush threshold.
	Process(ctx *ProcessContext)

	// ProcessBacktrace renders and dispatches identically to Process
	// but never triggers a backtrace flush, so replay cannot recurse.
	ProcessBacktrace(ctx *ProcessContext)
}

// FallbackErrorOutput receives render and write failures for sinks
// that do not implement ErrorSink. One malformed record must not halt
// the worker, so failures are reported here and processing continues.
// Overridable for tests.
var FallbackErrorOutput = func(err error) {
	fmt.Fprintf(os.Stderr, "wick: %v\n", err)
}

// logRecord is the single Record implementation: the logger reference,
// the interned call-site metadata, the promoted argument values, and
// the capture-time clock reading.
type logRecord struct {
	logger   *LoggerDetails
	meta     *Metadata
	args     []Arg
	captured int64
}

// NewRecord captures a logging call. args must already be promoted via
// Capture; capturedNanos is the producing-side clock reading.
func NewRecord(logger *LoggerDetails, meta *Metadata, args []Arg, capturedNanos int64) Record {
	return &logRecord{logger: logger, meta: meta, args: args, captured: capturedNanos}
}

func (r *logRecord) Clone() Record {
	args := make([]Arg, len(r.args))
	for i, a := range r.args {
		args[i] = a.clone()
	}
	return &logRecord{logger: r.logger, meta: r.meta, args: args, captured: r.captured}
}

func (r *logRecord) EncodedSize() int {
	return int(unsafe.Sizeof(logRecord{})) + len(r.args)*int(unsafe.Sizeof(Arg{}))
}

func (r *logRecord) Logger() *LoggerDetails { return r.logger }

func (r *logRecord) Level() Level { return r.meta.Level }

func (r *logRecord) CaptureNanos() int64 { return r.captured }

func (r *logRecord) Process(ctx *ProcessContext) {
	r.dispatch(ctx)

	if r.meta.Level >= r.logger.BacktraceFlushLevel && r.logger.BacktraceCapacity > 0 && ctx.Backtrace != nil {
		ctx.Backtrace.Replay(r.logger.Name, func(storedThreadID string, stored Record) {
			stored.ProcessBacktrace(&ProcessContext{
				ThreadID:  storedThreadID,
				ResolveTS: ctx.ResolveTS,
				Backtrace: ctx.Backtrace,
			})
		})
	}
}

func (r *logRecord) ProcessBacktrace(ctx *ProcessContext) {
	r.dispatch(ctx)
}

// dispatch resolves the timestamp and forwards the record to every
// sink in attachment order. Each sink renders independently through
// its own formatter. A failing sink never stops the remaining sinks.
func (r *logRecord) dispatch(ctx *ProcessContext) {
	ts := ctx.ResolveTS(r)
	eventTime := time.Unix(0, ts)

	for _, sink := range r.logger.Sinks {
		buf, err := sink.Formatter().Render(ts, ctx.ThreadID, r.logger.Name, r.meta, r.args)
		if err != nil {
			r.reportSinkError(sink, fmt.Errorf("render %s:%d: %w", r.meta.ShortFile, r.meta.Line, err))
			continue
		}
		var werr error
		if lw, ok := sink.(LevelWriter); ok {
			werr = lw.WriteLevel(buf, eventTime, r.meta.Level)
		} else {
			werr = sink.Write(buf, eventTime)
		}
		if werr != nil {
			r.reportSinkError(sink, fmt.Errorf("write to sink for logger %q: %w", r.logger.Name, werr))
		}
	}
}

func (r *logRecord) reportSinkError(sink Sink, err error) {
	if es, ok := sink.(ErrorSink); ok {
		es.ReportError(err)
		return
	}
	FallbackErrorOutput(err)
}
