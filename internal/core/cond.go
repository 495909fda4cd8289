// Package core holds the shared "core context": one value, passed
// explicitly to every worker, bundling the Alarm Table, Request Queue,
// pending-change list, and the five per-kind condition variables the
// Dispatcher signals, instead of reaching for package-level globals.
package core

import "sync"

// Cond is a dedicated wake-up signal for one Handler. It intentionally
// guards nothing but its own waiter bookkeeping — the predicate a Handler
// re-checks after Wait lives in the Alarm Table, under its own
// reader/writer lock, following Mesa-style "always re-check after wake"
// condition-variable usage.
type Cond struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewCond constructs a ready-to-use Cond.
func NewCond() *Cond {
	c := &Cond{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Wait blocks until the next Signal. Callers must re-check
// their predicate after Wait returns: wake-ups may be spurious or may
// refer to a predicate state another goroutine already consumed.
func (c *Cond) Wait() {
	c.mu.Lock()
	c.cond.Wait()
	c.mu.Unlock()
}

// Signal wakes exactly one waiter.
func (c *Cond) Signal() {
	c.mu.Lock()
	c.cond.Signal()
	c.mu.Unlock()
}
