package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakeRenderer records render inputs and produces a deterministic line.
type fakeRenderer struct {
	fail    bool
	renders []string
}

func (f *fakeRenderer) Render(ts int64, threadID, loggerName string, meta *Metadata, args []Arg) ([]byte, error) {
	if f.fail {
		return nil, errors.New("render failed")
	}
	var vals []string
	for _, a := range args {
		vals = append(vals, string(a.AppendValue(nil)))
	}
	line := fmt.Sprintf("%d|%s|%s|%s|%s\n", ts, threadID, loggerName, meta.Level, strings.Join(vals, ","))
	f.renders = append(f.renders, line)
	return []byte(line), nil
}

// fakeSink records writes. It owns its renderer like a real sink.
type fakeSink struct {
	r      fakeRenderer
	writes []string
	errs   []error
	failWr bool
	closed bool
}

func (s *fakeSink) Formatter() Renderer { return &s.r }

func (s *fakeSink) Write(p []byte, _ time.Time) error {
	if s.failWr {
		return errors.New("write failed")
	}
	s.writes = append(s.writes, string(p))
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSink) ReportError(err error) { s.errs = append(s.errs, err) }

// levelSink additionally records the level of each write.
type levelSink struct {
	fakeSink
	levels []Level
}

func (s *levelSink) WriteLevel(p []byte, ts time.Time, level Level) error {
	s.levels = append(s.levels, level)
	return s.fakeSink.Write(p, ts)
}

func testContext() *ProcessContext {
	return &ProcessContext{
		ThreadID:  "7",
		ResolveTS: func(r Record) int64 { return r.CaptureNanos() },
		Backtrace: NewBacktraceStorage(),
	}
}

func newTestRecord(ld *LoggerDetails, level Level, template string, args ...any) Record {
	meta := &Metadata{
		File:          "/src/app/main.go",
		ShortFile:     "main.go",
		Line:          10,
		Function:      "main.main",
		Level:         level,
		MessageFormat: template,
	}
	return NewRecord(ld, meta, Capture(args), 1000)
}

func TestRecord_ProcessDispatchesToAllSinks(t *testing.T) {
	s1 := &fakeSink{}
	s2 := &fakeSink{}
	ld := &LoggerDetails{Name: "app", Sinks: []Sink{s1, s2}, BacktraceFlushLevel: ErrorLevel}

	rec := newTestRecord(ld, InfoLevel, "value={}", 42)
	rec.Process(testContext())

	if len(s1.writes) != 1 || len(s2.writes) != 1 {
		t.Fatalf("writes = %d, %d; want 1, 1", len(s1.writes), len(s2.writes))
	}
	// Each sink rendered independently through its own formatter.
	if len(s1.r.renders) != 1 || len(s2.r.renders) != 1 {
		t.Errorf("renders = %d, %d; want 1, 1", len(s1.r.renders), len(s2.r.renders))
	}
	if !strings.Contains(s1.writes[0], "app") || !strings.Contains(s1.writes[0], "42") {
		t.Errorf("unexpected sink output: %q", s1.writes[0])
	}
}

func TestRecord_ProcessPrefersLevelWriter(t *testing.T) {
	s := &levelSink{}
	ld := &LoggerDetails{Name: "app", Sinks: []Sink{s}, BacktraceFlushLevel: ErrorLevel}

	newTestRecord(ld, WarnLevel, "w").Process(testContext())

	if len(s.levels) != 1 || s.levels[0] != WarnLevel {
		t.Errorf("WriteLevel levels = %v, want [WARN]", s.levels)
	}
}

func TestRecord_RenderFailureDoesNotStopOtherSinks(t *testing.T) {
	bad := &fakeSink{r: fakeRenderer{fail: true}}
	good := &fakeSink{}
	ld := &LoggerDetails{Name: "app", Sinks: []Sink{bad, good}, BacktraceFlushLevel: ErrorLevel}

	newTestRecord(ld, InfoLevel, "m").Process(testContext())

	if len(bad.errs) != 1 {
		t.Fatalf("failing sink reported %d errors, want 1", len(bad.errs))
	}
	if len(good.writes) != 1 {
		t.Errorf("healthy sink writes = %d, want 1", len(good.writes))
	}
}

func TestRecord_WriteFailureReportedOnSinkChannel(t *testing.T) {
	s := &fakeSink{failWr: true}
	ld := &LoggerDetails{Name: "app", Sinks: []Sink{s}, BacktraceFlushLevel: ErrorLevel}

	newTestRecord(ld, InfoLevel, "m").Process(testContext())

	if len(s.errs) != 1 {
		t.Fatalf("sink error channel got %d errors, want 1", len(s.errs))
	}
}

func TestRecord_WriteFailureFallsBackWithoutErrorSink(t *testing.T) {
	var fallback []error
	prev := FallbackErrorOutput
	FallbackErrorOutput = func(err error) { fallback = append(fallback, err) }
	defer func() { FallbackErrorOutput = prev }()

	// bareSink implements neither ErrorSink nor LevelWriter, so the
	// failure lands on the process-wide fallback.
	bare := &bareSink{failWr: true}
	ld := &LoggerDetails{Name: "app", Sinks: []Sink{bare}, BacktraceFlushLevel: ErrorLevel}
	newTestRecord(ld, InfoLevel, "m").Process(testContext())

	if len(fallback) != 1 {
		t.Errorf("fallback got %d errors, want 1", len(fallback))
	}
}

// bareSink implements only the required Sink interface.
type bareSink struct {
	r      fakeRenderer
	failWr bool
}

func (s *bareSink) Formatter() Renderer { return &s.r }

func (s *bareSink) Write(p []byte, _ time.Time) error {
	if s.failWr {
		return errors.New("write failed")
	}
	return nil
}

func (s *bareSink) Close() error { return nil }

func TestRecord_BacktraceReplayAtThreshold(t *testing.T) {
	s := &fakeSink{}
	ld := &LoggerDetails{
		Name:                "app",
		Sinks:               []Sink{s},
		BacktraceCapacity:   4,
		BacktraceFlushLevel: ErrorLevel,
	}

	ctx := testContext()
	for i := 0; i < 3; i++ {
		ctx.Backtrace.Store("app", "9", newTestRecord(ld, DebugLevel, "debug {}", i), ld.BacktraceCapacity)
	}

	newTestRecord(ld, ErrorLevel, "boom").Process(ctx)

	// Trigger's sinks are serviced first, then the retained window
	// replays in retention order.
	if len(s.writes) != 4 {
		t.Fatalf("writes = %d, want 4 (trigger + 3 replays)", len(s.writes))
	}
	if !strings.Contains(s.writes[0], "ERROR") {
		t.Errorf("first write should be the trigger, got %q", s.writes[0])
	}
	for i, want := range []string{"0", "1", "2"} {
		if !strings.Contains(s.writes[i+1], want) {
			t.Errorf("replay %d = %q, want argument %s", i, s.writes[i+1], want)
		}
	}
	// Replayed entries carry their stored thread id, not the trigger's.
	if !strings.Contains(s.writes[1], "|9|") {
		t.Errorf("replay should use stored thread id, got %q", s.writes[1])
	}
	if ctx.Backtrace.Len("app") != 0 {
		t.Errorf("backtrace storage should be empty after replay, has %d", ctx.Backtrace.Len("app"))
	}
}

func TestRecord_BelowThresholdDoesNotReplay(t *testing.T) {
	s := &fakeSink{}
	ld := &LoggerDetails{
		Name:                "app",
		Sinks:               []Sink{s},
		BacktraceCapacity:   4,
		BacktraceFlushLevel: ErrorLevel,
	}

	ctx := testContext()
	ctx.Backtrace.Store("app", "9", newTestRecord(ld, DebugLevel, "kept"), ld.BacktraceCapacity)

	newTestRecord(ld, WarnLevel, "warn").Process(ctx)

	if len(s.writes) != 1 {
		t.Fatalf("writes = %d, want 1 (no replay below threshold)", len(s.writes))
	}
	if ctx.Backtrace.Len("app") != 1 {
		t.Errorf("retained entry should survive, storage has %d", ctx.Backtrace.Len("app"))
	}
}

func TestRecord_ProcessBacktraceNeverReplays(t *testing.T) {
	s := &fakeSink{}
	ld := &LoggerDetails{
		Name:                "app",
		Sinks:               []Sink{s},
		BacktraceCapacity:   4,
		BacktraceFlushLevel: ErrorLevel,
	}

	ctx := testContext()
	ctx.Backtrace.Store("app", "9", newTestRecord(ld, DebugLevel, "kept"), ld.BacktraceCapacity)

	// Even an ERROR-severity record must not trigger replay through
	// the backtrace entry point.
	newTestRecord(ld, ErrorLevel, "boom").ProcessBacktrace(ctx)

	if len(s.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(s.writes))
	}
	if ctx.Backtrace.Len("app") != 1 {
		t.Errorf("backtrace entry point must not drain storage, has %d", ctx.Backtrace.Len("app"))
	}
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	ld := &LoggerDetails{Name: "app"}
	orig := newTestRecord(ld, InfoLevel, "data={}", []byte("abc"))
	c := orig.Clone()

	// Mutate the original's captured bytes; the clone must not see it.
	orig.(*logRecord).args[0].Bytes[0] = 'X'

	got := string(c.(*logRecord).args[0].Bytes)
	if got != "abc" {
		t.Errorf("clone argument = %q, want %q", got, "abc")
	}
	if c.Logger() != ld {
		t.Error("clone must share the logger reference")
	}
}

func TestRecord_EncodedSizeShapeStable(t *testing.T) {
	ld := &LoggerDetails{Name: "app"}

	a := newTestRecord(ld, InfoLevel, "v={} {}", 1, "x")
	b := newTestRecord(ld, InfoLevel, "v={} {}", 999999, strings.Repeat("y", 4096))
	if a.EncodedSize() != b.EncodedSize() {
		t.Errorf("EncodedSize differs across values: %d vs %d", a.EncodedSize(), b.EncodedSize())
	}

	c := newTestRecord(ld, InfoLevel, "v={}", 1)
	if c.EncodedSize() >= a.EncodedSize() {
		t.Errorf("EncodedSize should grow with arity: %d vs %d", c.EncodedSize(), a.EncodedSize())
	}
}

func TestRecord_TimestampResolverInjected(t *testing.T) {
	s := &fakeSink{}
	ld := &LoggerDetails{Name: "app", Sinks: []Sink{s}, BacktraceFlushLevel: ErrorLevel}

	ctx := testContext()
	ctx.ResolveTS = func(r Record) int64 { return r.CaptureNanos() + 5 }

	newTestRecord(ld, InfoLevel, "m").Process(ctx)

	if !strings.HasPrefix(s.writes[0], "1005|") {
		t.Errorf("resolved timestamp not used: %q", s.writes[0])
	}
}
