package core

import (
	"sync"

	"github.com/nicois/alarmd/internal/alarm"
)

// ChangeList is the Changer's private pending-change list, populated by
// the Dispatcher and drained by the Changer. Unlike the Alarm Table's
// Start/Cancel/Suspend/Reactivate/View records, Change requests never
// live in the Alarm Table itself.
type ChangeList struct {
	mu      sync.Mutex
	pending []*alarm.Record
}

// NewChangeList constructs an empty pending-change list.
func NewChangeList() *ChangeList {
	return &ChangeList{}
}

// Append adds a Change record to the pending list.
func (c *ChangeList) Append(r *alarm.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, r)
}

// DrainAll removes and returns every pending Change record, in arrival
// order, so the Changer can process each pending change in one pass.
func (c *ChangeList) DrainAll() []*alarm.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	out := c.pending
	c.pending = nil
	return out
}
