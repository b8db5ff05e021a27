package capture

import (
	"sync"
	"time"
)

const (
	maxRestarts   = 3
	restartWindow = 8 * time.Second
)

// RestartBudget rate-limits listener restarts: at most three within a rolling
// eight-second window. When the budget is exhausted the listener pauses
// instead of thrashing.
type RestartBudget struct {
	mu       sync.Mutex
	restarts []time.Time
	now      func() time.Time
}

func NewRestartBudget() *RestartBudget {
	return &RestartBudget{now: time.Now}
}

// Allow reports whether another restart fits the budget, recording it when it
// does.
func (b *RestartBudget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	cutoff := now.Add(-restartWindow)

	kept := b.restarts[:0]
	for _, t := range b.restarts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.restarts = kept

	if len(b.restarts) >= maxRestarts {
		return false
	}
	b.restarts = append(b.restarts, now)
	return true
}
