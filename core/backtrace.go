package core

// BacktraceStorage retains a bounded trailing window of below-threshold
// records per logger. When a high-severity record is processed, the
// window is replayed so the suppressed context surfaces next to the
// failure. It is owned and accessed only by the backend worker
// goroutine, so it needs no locking.
type BacktraceStorage struct {
	perLogger map[string]*backtraceRing
}

type backtraceEntry struct {
	threadID string
	record   Record
}

// backtraceRing is a fixed-capacity FIFO. Storing into a full ring
// evicts the oldest entry.
type backtraceRing struct {
	entries []backtraceEntry
	head    int
	count   int
}

// NewBacktraceStorage creates empty storage.
func NewBacktraceStorage() *BacktraceStorage {
	return &BacktraceStorage{perLogger: make(map[string]*backtraceRing)}
}

// Store retains a record for the named logger. The record must already
// be an independently owned copy (see Record.Clone); storage never
// clones on its own. capacity applies on first use per logger.
func (s *BacktraceStorage) Store(loggerName, threadID string, rec Record, capacity int) {
	if capacity <= 0 {
		return
	}
	ring, ok := s.perLogger[loggerName]
	if !ok {
		ring = &backtraceRing{entries: make([]backtraceEntry, capacity)}
		s.perLogger[loggerName] = ring
	}

	idx := (ring.head + ring.count) % len(ring.entries)
	ring.entries[idx] = backtraceEntry{threadID: threadID, record: rec}
	if ring.count < len(ring.entries) {
		ring.count++
	} else {
		// Full: the slot we just wrote replaced the oldest entry.
		ring.head = (ring.head + 1) % len(ring.entries)
	}
}

// Replay drains the named logger's retained entries in retention order,
// invoking fn once per entry. The storage is empty for that logger when
// Replay returns.
func (s *BacktraceStorage) Replay(loggerName string, fn func(threadID string, rec Record)) {
	ring, ok := s.perLogger[loggerName]
	if !ok {
		return
	}
	for ring.count > 0 {
		e := ring.entries[ring.head]
		ring.entries[ring.head] = backtraceEntry{}
		ring.head = (ring.head + 1) % len(ring.entries)
		ring.count--
		fn(e.threadID, e.record)
	}
}

// Len reports the number of retained entries for the named logger.
func (s *BacktraceStorage) Len(loggerName string) int {
	if ring, ok := s.perLogger[loggerName]; ok {
		return ring.count
	}
	return 0
}
