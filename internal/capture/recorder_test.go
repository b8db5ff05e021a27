package capture

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

type flushSpy struct {
	mu      sync.Mutex
	batches [][]string
}

func (s *flushSpy) flush(lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, lines)
}

func (s *flushSpy) snapshot() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.batches))
	copy(out, s.batches)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRecorderBatchesLinesOnIdle(t *testing.T) {
	spy := &flushSpy{}
	r := NewRecorder(30*time.Millisecond, spy.flush)
	defer r.Close()

	r.Add("one")
	r.Add("two")

	waitFor(t, time.Second, func() bool { return len(spy.snapshot()) == 1 })
	if got := spy.snapshot()[0]; !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("batch = %v", got)
	}
}

func TestRecorderTimerResetsPerLine(t *testing.T) {
	spy := &flushSpy{}
	r := NewRecorder(60*time.Millisecond, spy.flush)
	defer r.Close()

	// Keep adding inside the idle window; nothing should flush yet.
	for i := 0; i < 4; i++ {
		r.Add("line")
		time.Sleep(20 * time.Millisecond)
	}
	if len(spy.snapshot()) != 0 {
		t.Fatal("flushed before going idle")
	}

	waitFor(t, time.Second, func() bool { return len(spy.snapshot()) == 1 })
	if got := spy.snapshot()[0]; len(got) != 4 {
		t.Fatalf("batch = %v", got)
	}
}

func TestRecorderExplicitFlush(t *testing.T) {
	spy := &flushSpy{}
	r := NewRecorder(time.Hour, spy.flush)
	defer r.Close()

	r.Add("now")
	r.Flush()

	if got := spy.snapshot(); len(got) != 1 || !reflect.DeepEqual(got[0], []string{"now"}) {
		t.Fatalf("batches = %v", got)
	}

	// Flushing an empty buffer is a no-op.
	r.Flush()
	if got := spy.snapshot(); len(got) != 1 {
		t.Fatalf("batches = %v", got)
	}
}

func TestRecorderCloseDropsPending(t *testing.T) {
	spy := &flushSpy{}
	r := NewRecorder(20*time.Millisecond, spy.flush)

	r.Add("dropped")
	r.Close()

	time.Sleep(80 * time.Millisecond)
	if got := spy.snapshot(); len(got) != 0 {
		t.Fatalf("batches = %v", got)
	}

	// Adds after close are ignored.
	r.Add("ignored")
	r.Flush()
	if got := spy.snapshot(); len(got) != 0 {
		t.Fatalf("batches = %v", got)
	}
}

func TestRestartBudget(t *testing.T) {
	now := time.Unix(1000, 0)
	b := NewRestartBudget()
	b.now = func() time.Time { return now }

	for i := 0; i < maxRestarts; i++ {
		if !b.Allow() {
			t.Fatalf("restart %d denied", i)
		}
	}
	if b.Allow() {
		t.Fatal("fourth restart inside the window must be denied")
	}

	// Still inside the window.
	now = now.Add(4 * time.Second)
	if b.Allow() {
		t.Fatal("restart still inside the window must be denied")
	}

	// Past the window the budget refills.
	now = now.Add(restartWindow)
	if !b.Allow() {
		t.Fatal("restart after the window must be allowed")
	}
}
