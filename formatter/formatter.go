package formatter

import (
	"github.com/wicklog/wick/core"
)

// DefaultPattern is used when Config.Pattern is empty.
const DefaultPattern = "%(ascii_time) [%(thread)] %(filename):%(lineno) %(level_name) %(logger_name) - %(message)"

// DefaultDateFormat is used when Config.DateFormat is empty.
const DefaultDateFormat = "%H:%M:%S"

// Config holds pattern formatter configuration
type Config struct {
	// Pattern is the layout string. Must contain exactly one
	// %(message) placeholder (default: DefaultPattern).
	Pattern string
	// DateFormat is a strftime-style format for %(ascii_time)
	// (default: "%H:%M:%S").
	DateFormat string
	// Precision is the sub-second digit count (default: nanoseconds).
	Precision Precision
	// Timezone selects local or UTC rendering (default: local).
	Timezone Timezone
}

// applyDefaults fills in zero-value fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
}

// PatternFormatter compiles a layout pattern once at construction and
// renders events through the compiled plans on every call.
//
// The scratch buffer is reused across calls: the slice returned by
// Render is valid only until the next Render on the same instance. A
// PatternFormatter is owned by exactly one sink and is only ever
// called from the backend worker goroutine, so it needs no locking.
// Unlike its plans it is freely movable; nothing inside refers back to
// the instance.
type PatternFormatter struct {
	prefix *plan
	suffix *plan
	ts     *TimestampRenderer
	buf    []byte
}

// New compiles cfg.Pattern and returns a ready formatter. It fails if
// the pattern lacks a %(message) placeholder, contains an unrecognized
// attribute token, or the date format does not parse.
func New(cfg Config) (*PatternFormatter, error) {
	applyDefaults(&cfg)

	prefix, suffix, err := compilePattern(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	ts, err := newTimestampRenderer(cfg.DateFormat, cfg.Precision, cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &PatternFormatter{
		prefix: prefix,
		suffix: suffix,
		ts:     ts,
		buf:    make([]byte, 0, 256),
	}, nil
}

// Render produces prefix + message + suffix + '\n' for one event into
// the instance's scratch buffer and returns it by reference. Rendering
// order is fixed; an empty segment contributes nothing and costs no
// resolver calls.
func (f *PatternFormatter) Render(timestamp int64, threadID, loggerName string, meta *core.Metadata, args []core.Arg) ([]byte, error) {
	f.buf = f.buf[:0]
	ctx := EventContext{
		Timestamp:  timestamp,
		ThreadID:   threadID,
		LoggerName: loggerName,
		Meta:       meta,
		Time:       f.ts,
	}

	if f.prefix != nil {
		f.buf = f.prefix.render(f.buf, &ctx)
	}

	var err error
	if f.buf, err = appendMessage(f.buf, meta.MessageFormat, args); err != nil {
		return nil, err
	}

	if f.suffix != nil {
		f.buf = f.suffix.render(f.buf, &ctx)
	}

	f.buf = append(f.buf, '\n')
	return f.buf, nil
}

var _ core.Renderer = (*PatternFormatter)(nil)
