// Package backend runs the single consumer side of wick: a bounded
// queue of captured records drained by one worker goroutine that owns
// every formatter and performs all sink I/O.
//
// Producers hand records over with Submit, which never performs I/O.
// When the queue is full a per-level overflow policy decides whether
// the record is dropped or the producer blocks briefly; errors default
// to blocking so they survive bursts that debug chatter does not.
// Atomic counters record every drop, block, and dispatch.
//
// The worker also owns backtrace retention: records below a logger's
// flush threshold are cloned into a bounded per-logger window instead
// of being written, and replay is driven by record processing when a
// high-severity event lands.
package backend
