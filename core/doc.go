// Package core holds the hot-path machinery of wick: argument capture,
// records, call-site metadata, and backtrace retention.
//
// A logging call captures its heterogeneous arguments into owned Arg
// values on the calling goroutine, stamps the result with the coarse
// clock, and wraps everything in a Record. The Record is then handed
// across the queue as an opaque value; the backend worker consumes it
// through the small capability set {Clone, EncodedSize, Process,
// ProcessBacktrace} without knowing anything about the captured types.
//
// Arg encodes values into fixed-size numeric slots wherever possible so
// that common types like int, bool, and time.Time never require a
// per-value allocation. View-like arguments ([]byte, []rune, []uint16)
// are copied at capture time because the record outlives the calling
// stack frame. Call-site metadata (file, line, function, severity,
// message template) is interned once per site in a pc-keyed registry.
//
// The Sink and Renderer interfaces defined here are what Record
// processing consumes; package formatter provides the Renderer and
// package handler the Sinks.
package core
