package backend

import (
	"sync/atomic"

	"github.com/wicklog/wick/core"
)

// OverflowPolicy defines how to handle a full record queue
type OverflowPolicy int

const (
	// DropNewest drops the incoming record when the queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest queued record when the queue is full
	DropOldest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy returns the default level-based overflow policies:
// low-severity records are droppable, errors block briefly rather than
// disappear.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.DebugLevel:    DropNewest,
		core.InfoLevel:     DropNewest,
		core.WarnLevel:     DropNewest,
		core.ErrorLevel:    Block,
		core.CriticalLevel: Block,
	}
}

// Stats tracks backend queue statistics
type Stats struct {
	// Separate atomic counters per level
	DroppedDebug    uint64
	DroppedInfo     uint64
	DroppedWarn     uint64
	DroppedError    uint64
	DroppedCritical uint64
	// BlockedTotal counts times a producer blocked on a full queue
	BlockedTotal uint64
	// ProcessedTotal counts records dispatched to sinks
	ProcessedTotal uint64
	// RetainedTotal counts records diverted into backtrace storage
	RetainedTotal uint64
	// QueuedBytes accumulates EncodedSize of every accepted record;
	// it is what a slot-reserving transport would have allocated
	QueuedBytes uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.Level) {
	switch level {
	case core.DebugLevel:
		atomic.AddUint64(&s.DroppedDebug, 1)
	case core.InfoLevel:
		atomic.AddUint64(&s.DroppedInfo, 1)
	case core.WarnLevel:
		atomic.AddUint64(&s.DroppedWarn, 1)
	case core.ErrorLevel:
		atomic.AddUint64(&s.DroppedError, 1)
	case core.CriticalLevel:
		atomic.AddUint64(&s.DroppedCritical, 1)
	}
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.BlockedTotal, 1)
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	atomic.AddUint64(&s.ProcessedTotal, 1)
}

// IncrementRetained atomically increments the retained counter
func (s *Stats) IncrementRetained() {
	atomic.AddUint64(&s.RetainedTotal, 1)
}

// AddQueuedBytes atomically adds n to the queued-bytes counter
func (s *Stats) AddQueuedBytes(n int) {
	atomic.AddUint64(&s.QueuedBytes, uint64(n))
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	switch level {
	case core.DebugLevel:
		return atomic.LoadUint64(&s.DroppedDebug)
	case core.InfoLevel:
		return atomic.LoadUint64(&s.DroppedInfo)
	case core.WarnLevel:
		return atomic.LoadUint64(&s.DroppedWarn)
	case core.ErrorLevel:
		return atomic.LoadUint64(&s.DroppedError)
	case core.CriticalLevel:
		return atomic.LoadUint64(&s.DroppedCritical)
	default:
		return 0
	}
}

// GetBlocked returns the blocked count
func (s *Stats) GetBlocked() uint64 {
	return atomic.LoadUint64(&s.BlockedTotal)
}

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 {
	return atomic.LoadUint64(&s.ProcessedTotal)
}

// GetRetained returns the retained count
func (s *Stats) GetRetained() uint64 {
	return atomic.LoadUint64(&s.RetainedTotal)
}

// GetQueuedBytes returns the accumulated queued bytes
func (s *Stats) GetQueuedBytes() uint64 {
	return atomic.LoadUint64(&s.QueuedBytes)
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	return atomic.LoadUint64(&s.DroppedDebug) +
		atomic.LoadUint64(&s.DroppedInfo) +
		atomic.LoadUint64(&s.DroppedWarn) +
		atomic.LoadUint64(&s.DroppedError) +
		atomic.LoadUint64(&s.DroppedCritical)
}
