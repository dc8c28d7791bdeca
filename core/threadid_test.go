package core

import (
	"strconv"
	"testing"
)

func TestThreadID_Numeric(t *testing.T) {
	id := ThreadID()
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		t.Errorf("ThreadID() = %q, want decimal goroutine id", id)
	}
}

func TestThreadID_DiffersAcrossGoroutines(t *testing.T) {
	main := ThreadID()
	ch := make(chan string, 1)
	go func() { ch <- ThreadID() }()
	other := <-ch

	if main == other {
		t.Errorf("ThreadID identical across goroutines: %q", main)
	}
}

func BenchmarkThreadID(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ThreadID()
	}
}
