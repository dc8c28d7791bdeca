package core

import (
	"sync"
	"sync/atomic"
	"time"
)

var (
	coarseClockOnce sync.Once
	coarseNanos     atomic.Int64
)

// StartCoarseClock starts the background goroutine that caches
// time.Now() every 500µs. Records stamp themselves with the cached
// reading so the hot path never calls time.Now(). It is safe to call
// multiple times; the goroutine is started exactly once and runs for
// the lifetime of the process, which is intentional because logging
// typically spans the entire application lifecycle.
func StartCoarseClock() {
	coarseClockOnce.Do(func() {
		coarseNanos.Store(time.Now().UnixNano())
		go func() {
			ticker := time.NewTicker(500 * time.Microsecond)
			for range ticker.C {
				coarseNanos.Store(time.Now().UnixNano())
			}
		}()
	})
}

// CoarseNanos returns the most recently cached epoch nanoseconds.
// Falls back to time.Now() if StartCoarseClock has not run yet.
func CoarseNanos() int64 {
	if n := coarseNanos.Load(); n != 0 {
		return n
	}
	return time.Now().UnixNano()
}
