// Package display implements the per-group Display Scheduler and the
// Round-Robin Coordinator: one long-lived worker per active group, owning
// up to two alarms, printing them on a one-second tick while a shared
// cursor forces groups to take turns in ascending group-id order.
package display

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
)

var logger = slog.Default()

// SetLogger overrides the package logger.
func SetLogger(l *slog.Logger) { logger = l }

// Snapshot is a Display Scheduler's local copy of an alarm's last-observed
// state, used to detect changes cycle-over-cycle.
type Snapshot struct {
	AlarmID       int
	GroupID       int
	Status        alarm.Status
	TimeStamp     time.Time
	Interval      int
	Time          int
	Message       string
	LastPrintTime time.Time
}

// Scheduler owns up to two alarms for a single group: never more than two
// per scheduler.
type Scheduler struct {
	GroupID int

	mu    sync.Mutex
	slot1 *alarm.Record
	slot2 *alarm.Record
	snap1 *Snapshot
	snap2 *Snapshot
	count int

	done chan struct{}
}

// NewScheduler constructs a Scheduler for groupID, seeded with the first
// alarm it owns.
func NewScheduler(groupID int, first *alarm.Record) *Scheduler {
	return &Scheduler{
		GroupID: groupID,
		slot1:   first,
		count:   1,
		done:    make(chan struct{}),
	}
}

// Count reports how many alarms this scheduler currently owns, under its
// own mutex.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Assign places r into the first empty slot and returns true, or returns
// false if both slots are already occupied. Callers must already hold the
// Alarm Table's writer lock; Assign takes only the Scheduler's own mutex.
func (s *Scheduler) Assign(r *alarm.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.slot1 == nil:
		s.slot1 = r
		s.count++
		return true
	case s.slot2 == nil:
		s.slot2 = r
		s.count++
		return true
	default:
		return false
	}
}

// Stop signals the Scheduler's goroutine to stop, outside the normal "no
// more alarms" exit path. Nothing in the program calls it; schedulers stop
// when their context is cancelled.
func (s *Scheduler) Stop() { close(s.done) }

// Registry is the display-list mutex plus the list of active Display
// Schedulers, one per group currently in play.
type Registry struct {
	mu         sync.Mutex
	schedulers []*Scheduler
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// FindAssignable returns the first Scheduler for groupID with fewer than 2
// alarms, or nil if none exists (the Starter then creates one).
func (r *Registry) FindAssignable(groupID int) *Scheduler {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schedulers {
		if s.GroupID == groupID && s.Count() < 2 {
			return s
		}
	}
	return nil
}

// Add registers a newly-created Scheduler.
func (r *Registry) Add(s *Scheduler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedulers = append(r.schedulers, s)
}

// Remove deregisters a Scheduler that has exited (no more alarms in its
// group).
func (r *Registry) Remove(s *Scheduler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.schedulers {
		if cur == s {
			r.schedulers = append(r.schedulers[:i], r.schedulers[i+1:]...)
			return
		}
	}
}

// List returns a snapshot copy of the current schedulers, for the stats
// reporter.
func (r *Registry) List() []*Scheduler {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Scheduler, len(r.schedulers))
	copy(out, r.schedulers)
	return out
}
