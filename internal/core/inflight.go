package core

import (
	"context"
	"sync/atomic"
	"time"
)

// drainPoll is how often WaitForDrain rechecks the count.
const drainPoll = 50 * time.Millisecond

// Inflight counts reloads started on behalf of a client, so shutdown can let
// them finish their observers. Store does the serializing; Inflight only
// counts.
type Inflight struct {
	active atomic.Int64
}

// Begin records a started job. The returned func marks it done and must be
// called exactly once.
func (f *Inflight) Begin() (done func()) {
	f.active.Add(1)
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			f.active.Add(-1)
		}
	}
}

// Active returns the number of jobs begun and not yet done.
func (f *Inflight) Active() int {
	return int(f.active.Load())
}

// WaitForDrain blocks until no job is running or ctx is done.
func (f *Inflight) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for f.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
