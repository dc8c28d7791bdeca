package backend

import (
	"sync"
	"time"

	"github.com/wicklog/wick/core"
)

// item is one queued handoff: the opaque record plus the producing
// goroutine's id, which travels alongside because the worker cannot
// recover it later.
type item struct {
	rec      core.Record
	threadID string
}

// Config holds backend configuration
type Config struct {
	// QueueSize is the record queue capacity (default: 4096)
	QueueSize int
	// OverflowPolicy defines per-level behavior on a full queue
	// (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout bounds how long a Block policy waits (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout bounds queue draining on Close (default: 5s)
	DrainTimeout time.Duration
	// ResolveTimestamp maps a record to its real epoch nanoseconds.
	// The default returns the record's coarse-clock capture reading.
	ResolveTimestamp func(core.Record) int64
}

// applyDefaults fills in zero-value fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 4096
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.ResolveTimestamp == nil {
		cfg.ResolveTimestamp = func(r core.Record) int64 { return r.CaptureNanos() }
	}
}

// Backend owns the single consumer goroutine that drains the record
// queue, dispatches records to their sinks, and coordinates backtrace
// retention and replay. All formatter and sink access happens on this
// one goroutine; producers only ever touch the queue.
type Backend struct {
	queue        chan item
	syncChan     chan chan struct{}
	overflow     map[core.Level]OverflowPolicy
	blockTimeout time.Duration
	drainTimeout time.Duration
	resolveTS    func(core.Record) int64
	backtrace    *core.BacktraceStorage
	stats        *Stats
	closed       chan struct{}
	wg           sync.WaitGroup
}

// New starts a backend worker. It also starts the coarse clock records
// stamp themselves with.
func New(cfg Config) *Backend {
	applyDefaults(&cfg)
	core.StartCoarseClock()

	b := &Backend{
		queue:        make(chan item, cfg.QueueSize),
		syncChan:     make(chan chan struct{}),
		overflow:     cfg.OverflowPolicy,
		blockTimeout: cfg.BlockTimeout,
		drainTimeout: cfg.DrainTimeout,
		resolveTS:    cfg.ResolveTimestamp,
		backtrace:    core.NewBacktraceStorage(),
		stats:        NewStats(),
		closed:       make(chan struct{}),
	}
	b.wg.Add(1)
	go b.process()
	return b
}

// Stats returns the backend's counters.
func (b *Backend) Stats() *Stats { return b.stats }

// Submit hands a captured record to the worker. The record's encoded
// size is computable before handoff, so a slot-reserving transport
// could size storage here; the channel transport only accounts for it.
// Submit never does I/O; on a full queue the per-level overflow policy
// decides between dropping and briefly blocking.
func (b *Backend) Submit(rec core.Record, threadID string) {
	select {
	case <-b.closed:
		b.stats.IncrementDropped(rec.Level())
		return
	default:
	}

	b.stats.AddQueuedBytes(rec.EncodedSize())
	it := item{rec: rec, threadID: threadID}

	select {
	case b.queue <- it:
		return
	default:
	}

	policy, ok := b.overflow[rec.Level()]
	if !ok {
		policy = DropNewest
	}

	switch policy {
	case Block:
		b.stats.IncrementBlocked()
		timer := time.NewTimer(b.blockTimeout)
		defer timer.Stop()
		select {
		case b.queue <- it:
		case <-timer.C:
			b.stats.IncrementDropped(rec.Level())
		case <-b.closed:
			b.stats.IncrementDropped(rec.Level())
		}

	case DropOldest:
		select {
		case old := <-b.queue:
			b.stats.IncrementDropped(old.rec.Level())
		default:
		}
		select {
		case b.queue <- it:
		default:
			b.stats.IncrementDropped(rec.Level())
		}

	default: // DropNewest
		b.stats.IncrementDropped(rec.Level())
	}
}

// Flush blocks until every record queued before the call has been
// consumed.
func (b *Backend) Flush() {
	done := make(chan struct{}, 1)
	select {
	case b.syncChan <- done:
		<-done
	case <-b.closed:
	}
}

// Close stops the worker, draining the queue up to the configured
// drain timeout. Records submitted after Close are dropped.
func (b *Backend) Close() {
	select {
	case <-b.closed:
		return
	default:
	}
	close(b.closed)
	b.wg.Wait()
}

// process is the worker loop: consume one record, then batch-drain
// whatever else is already queued before going back to sleep.
func (b *Backend) process() {
	defer b.wg.Done()

	for {
		select {
		case it := <-b.queue:
			b.consume(it)
		batchDrain:
			for {
				select {
				case it := <-b.queue:
					b.consume(it)
				default:
					break batchDrain
				}
			}

		case done := <-b.syncChan:
			b.drainAll()
			done <- struct{}{}

		case <-b.closed:
			deadline := time.After(b.drainTimeout)
		drainLoop:
			for {
				select {
				case it := <-b.queue:
					b.consume(it)
				case <-deadline:
					break drainLoop
				default:
					break drainLoop
				}
			}
			return
		}
	}
}

func (b *Backend) drainAll() {
	for {
		select {
		case it := <-b.queue:
			b.consume(it)
		default:
			return
		}
	}
}

// consume routes one record: below-threshold records of a
// backtrace-enabled logger are duplicated into retention storage
// instead of reaching the sinks; everything else is processed, which
// also replays the retained window when the severity warrants it.
func (b *Backend) consume(it item) {
	ld := it.rec.Logger()
	if ld.BacktraceCapacity > 0 && it.rec.Level() < ld.BacktraceFlushLevel {
		b.backtrace.Store(ld.Name, it.threadID, it.rec.Clone(), ld.BacktraceCapacity)
		b.stats.IncrementRetained()
		return
	}

	it.rec.Process(&core.ProcessContext{
		ThreadID:  it.threadID,
		ResolveTS: b.resolveTS,
		Backtrace: b.backtrace,
	})
	b.stats.IncrementProcessed()
}
