package alarm

import (
	"log/slog"
	"time"

	"github.com/google/btree"

	"github.com/nicois/alarmd/internal/rwlock"
)

var logger = slog.Default()

// SetLogger overrides the package logger so the whole program shares one
// sink.
func SetLogger(l *slog.Logger) { logger = l }

// Table is the shared Alarm Table: an intrusive, time_stamp-ordered
// doubly-linked list of records, guarded by the three-semaphore
// reader/writer lock from internal/rwlock, plus a btree index of distinct
// group ids carried by live (Active or Suspended) Start records.
type Table struct {
	lock *rwlock.RWLock

	root *Record // sentinel; root.next is the head
	tail *Record

	groupIDs *btree.BTreeG[int]
	groupUse map[int]int // group id -> count of live Start records
}

func less(a, b int) bool { return a < b }

// New constructs an empty Alarm Table.
func New() *Table {
	root := &Record{}
	root.next = nil
	return &Table{
		lock:     rwlock.New(),
		root:     root,
		tail:     root,
		groupIDs: btree.NewG(2, less),
		groupUse: make(map[int]int),
	}
}

// Insert adds r to the list in TimeStamp order (non-decreasing). Callers
// must already hold the writer lock (via WithWriter), the same contract as
// ActivateStart/ChangeGroup/MarkRemove below: every mutator on Table
// assumes the lock is already held, so a goroutine doing several
// mutations in one critical section never has to re-acquire it.
func (t *Table) Insert(r *Record) {
	var cur *Record = t.root.next
	var prev *Record = t.root
	for cur != nil && !r.TimeStamp.Before(cur.TimeStamp) {
		prev = cur
		cur = cur.next
	}
	r.prev = prev
	r.next = cur
	prev.next = r
	if cur != nil {
		cur.prev = r
	} else {
		t.tail = r
	}
	// A freshly-inserted Start record is unassigned (status 0) until the
	// Starter activates it, so it does not yet join the group index here.
	logger.Debug("Alarm Thread has Inserted Alarm Into Alarm List", slog.Any("record", r))
}

// Unlink removes r from the list. Callers must hold the writer lock. Group
// accounting was already retired in MarkRemove, so this only unlinks.
func (t *Table) Unlink(r *Record) {
	if r.prev != nil {
		r.prev.next = r.next
	}
	if r.next != nil {
		r.next.prev = r.prev
	} else {
		t.tail = r.prev
	}
	r.prev = nil
	r.next = nil
}

// ActivateStart marks a freshly-Started record Active and joins its group
// in the group index. Callers must hold the writer lock.
func (t *Table) ActivateStart(r *Record) {
	r.Status = Active
	t.trackGroupLocked(r.GroupID, 1)
}

// Suspend/Reactivate flip Active<->Suspended without touching the group
// index: both statuses count as "in a group".
func (t *Table) SetSuspended(r *Record) { r.Status = Suspended }
func (t *Table) SetActive(r *Record)    { r.Status = Active }

// ChangeGroup moves r to newGroup, updating the group index and raising
// the Moved flag as part of the Changer's hand-off protocol.
func (t *Table) ChangeGroup(r *Record, newGroup int) {
	t.trackGroupLocked(r.GroupID, -1)
	r.GroupID = newGroup
	r.Status |= Moved
	t.trackGroupLocked(newGroup, 1)
}

// MarkRemove retires r from the group index (it no longer counts as
// Active/Suspended) and sets its status to Remove. The record remains
// physically linked until its owning Display Scheduler calls Unlink.
// Callers must hold the writer lock.
func (t *Table) MarkRemove(r *Record) {
	if r.Status.Has(Active) || r.Status.Has(Suspended) {
		t.trackGroupLocked(r.GroupID, -1)
	}
	r.Status = Remove
}

func (t *Table) trackGroupLocked(groupID, delta int) {
	n := t.groupUse[groupID] + delta
	if n <= 0 {
		delete(t.groupUse, groupID)
		t.groupIDs.Delete(groupID)
		return
	}
	t.groupUse[groupID] = n
	t.groupIDs.ReplaceOrInsert(groupID)
}

// WithWriter runs fn while holding the writer lock. Lock order is always
// "writer lock → display-list mutex → scheduler-local mutex": callers
// never acquire a display-list or scheduler mutex before calling
// WithWriter.
func (t *Table) WithWriter(fn func()) {
	t.lock.Lock()
	defer t.lock.Unlock()
	fn()
}

// WithReader runs fn while holding the reader lock.
func (t *Table) WithReader(fn func()) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	fn()
}

// FindByID returns the Start record with the given AlarmID, or nil.
// Callers must hold at least the reader lock.
func (t *Table) FindByID(id int) *Record {
	for r := t.root.next; r != nil; r = r.next {
		if r.Kind == Start && r.AlarmID == id {
			return r
		}
	}
	return nil
}

// FindByType returns every record of the given Kind, in list order.
// Callers must hold at least the reader lock.
func (t *Table) FindByType(k Kind) []*Record {
	var out []*Record
	for r := t.root.next; r != nil; r = r.next {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

// FindMostRecentOfType returns the record of Kind k with the largest
// TimeStamp, tie-broken by list order (later in the list wins), or nil if
// none exists. Callers must hold at least the reader lock.
func (t *Table) FindMostRecentOfType(k Kind) *Record {
	var best *Record
	for r := t.root.next; r != nil; r = r.next {
		if r.Kind != k {
			continue
		}
		if best == nil || !r.TimeStamp.Before(best.TimeStamp) {
			best = r
		}
	}
	return best
}

// FindMostRecentUnassignedStart returns the Start record with the largest
// TimeStamp among those still carrying status 0 (not yet activated by the
// Starter), tie-broken by list order, or nil if none exists. Callers must
// hold at least the reader lock.
func (t *Table) FindMostRecentUnassignedStart() *Record {
	var best *Record
	for r := t.root.next; r != nil; r = r.next {
		if r.Kind != Start || r.Status != 0 {
			continue
		}
		if best == nil || !r.TimeStamp.Before(best.TimeStamp) {
			best = r
		}
	}
	return best
}

// FindEarlierStart returns the Start record for alarmID whose TimeStamp is
// strictly earlier than before, used by the Suspender/Reactivator to find
// the alarm a pending Suspend/Reactivate request refers to. Callers must
// hold at least the reader lock.
func (t *Table) FindEarlierStart(alarmID int, before time.Time) *Record {
	for r := t.root.next; r != nil; r = r.next {
		if r.Kind == Start && r.AlarmID == alarmID && r.TimeStamp.Before(before) {
			return r
		}
	}
	return nil
}

// ActiveGroupIDs returns the distinct group ids of Active/Suspended Start
// records, sorted ascending, via the btree index. Callers must hold at
// least the reader lock.
func (t *Table) ActiveGroupIDs() []int {
	out := make([]int, 0, t.groupIDs.Len())
	t.groupIDs.Ascend(func(g int) bool {
		out = append(out, g)
		return true
	})
	return out
}

// IsLargestGroup reports whether g is the largest active group id.
// Callers must hold at least the reader lock.
func (t *Table) IsLargestGroup(g int) bool {
	max, ok := t.groupIDs.Max()
	return ok && max == g
}
