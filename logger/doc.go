// Package logger is the producing-side frontend.
//
// A Logger is built once through the Builder, then shared freely: it is
// immutable and its methods are safe for concurrent use. Each logging
// call runs entirely on the calling goroutine up to the queue handoff:
// level gate, call-site metadata lookup, argument promotion, coarse
// clock stamp. No I/O happens on this path; rendering and sink writes
// are the backend worker's job.
//
// Message templates use {} placeholders filled positionally from the
// call's arguments:
//
//	log.Info("processed {} items in {}", n, elapsed)
package logger
