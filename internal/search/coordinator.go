package search

import (
	"fmt"
	"sync"
)

// StopReason records why a search stopped.
type StopReason int

const (
	// StopNone means the search is still running.
	StopNone StopReason = iota
	// StopFound means a worker matched the target.
	StopFound
	// StopExhausted means every worker scanned its whole chunk without a match.
	StopExhausted
	// StopAborted means the caller cancelled the search.
	StopAborted
)

// String returns the reason name used in logs and JSON output.
func (r StopReason) String() string {
	switch r {
	case StopFound:
		return "found"
	case StopExhausted:
		return "exhausted"
	case StopAborted:
		return "aborted"
	default:
		return "running"
	}
}

// Coordinator is the shared stop state of one search. It moves from running
// to stopped exactly once. Create a new Coordinator for every search.
type Coordinator struct {
	mu        sync.Mutex
	cond      *sync.Cond
	total     int
	exhausted int
	stopped   bool
	reason    StopReason
}

// NewCoordinator creates a Coordinator for the given number of workers.
// With no workers there is nothing to search, so it starts stopped as
// exhausted.
func NewCoordinator(workers int) *Coordinator {
	c := &Coordinator{total: workers}
	c.cond = sync.NewCond(&c.mu)
	if workers <= 0 {
		c.stopped = true
		c.reason = StopExhausted
	}
	return c
}

// SignalFound stops the search because a worker matched. Calls after the
// search has stopped have no effect.
func (c *Coordinator) SignalFound() {
	c.stop(StopFound)
}

// Abort stops the search on behalf of the caller. Calls after the search has
// stopped have no effect.
func (c *Coordinator) Abort() {
	c.stop(StopAborted)
}

// SignalExhausted records that one worker scanned its whole chunk. The last
// expected call stops the search unless it already stopped. Signalling more
// times than there are workers panics.
func (c *Coordinator) SignalExhausted() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exhausted >= c.total {
		panic(fmt.Sprintf("search: SignalExhausted called %d times for %d workers", c.exhausted+1, c.total))
	}
	c.exhausted++
	if c.exhausted == c.total && !c.stopped {
		c.stopped = true
		c.reason = StopExhausted
		c.cond.Broadcast()
	}
}

// WaitUntilStopped blocks until the search has stopped.
func (c *Coordinator) WaitUntilStopped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.stopped {
		c.cond.Wait()
	}
}

// Stopped reports whether the search has stopped.
func (c *Coordinator) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Exhausted returns how many workers have signalled exhaustion.
func (c *Coordinator) Exhausted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

// Reason returns why the search stopped, or StopNone while it is running.
func (c *Coordinator) Reason() StopReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

func (c *Coordinator) stop(reason StopReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	c.reason = reason
	c.cond.Broadcast()
}
