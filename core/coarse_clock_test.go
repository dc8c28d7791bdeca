package core

import (
	"testing"
	"time"
)

func TestCoarseNanos_TracksWallClock(t *testing.T) {
	StartCoarseClock()
	time.Sleep(2 * time.Millisecond)

	got := CoarseNanos()
	now := time.Now().UnixNano()
	diff := now - got
	if diff < 0 {
		diff = -diff
	}
	// The clock refreshes every 500µs; allow generous scheduler slack.
	if diff > int64(100*time.Millisecond) {
		t.Errorf("coarse clock drifted %v from wall clock", time.Duration(diff))
	}
}

func TestCoarseNanos_Advances(t *testing.T) {
	StartCoarseClock()
	first := CoarseNanos()
	time.Sleep(5 * time.Millisecond)
	second := CoarseNanos()
	if second <= first {
		t.Errorf("coarse clock did not advance: %d then %d", first, second)
	}
}
