package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newStart(id, group int, ts time.Time) *Record {
	return &Record{AlarmID: id, GroupID: group, Kind: Start, TimeStamp: ts}
}

func TestInsertPreservesTimeStampOrder(t *testing.T) {
	tbl := New()
	base := time.Now()
	r1 := newStart(1, 10, base)
	r2 := newStart(2, 10, base.Add(time.Second))
	r3 := newStart(3, 10, base.Add(500*time.Millisecond))

	tbl.WithWriter(func() {
		tbl.Insert(r2)
		tbl.Insert(r1)
		tbl.Insert(r3)
	})

	var order []int
	tbl.WithReader(func() {
		for r := tbl.root.next; r != nil; r = r.next {
			order = append(order, r.AlarmID)
		}
	})
	require.Equal(t, []int{1, 3, 2}, order)
}

func TestActivateJoinsGroupIndexOnce(t *testing.T) {
	tbl := New()
	r := newStart(1, 5, time.Now())
	tbl.WithWriter(func() {
		tbl.Insert(r)
	})
	tbl.WithReader(func() {
		require.Empty(t, tbl.ActiveGroupIDs())
	})
	tbl.WithWriter(func() {
		tbl.ActivateStart(r)
	})
	tbl.WithReader(func() {
		require.Equal(t, []int{5}, tbl.ActiveGroupIDs())
	})
}

func TestChangeGroupMovesIndexEntry(t *testing.T) {
	tbl := New()
	r := newStart(1, 5, time.Now())
	tbl.WithWriter(func() {
		tbl.Insert(r)
		tbl.ActivateStart(r)
		tbl.ChangeGroup(r, 9)
	})
	tbl.WithReader(func() {
		require.Equal(t, []int{9}, tbl.ActiveGroupIDs())
		require.True(t, r.Status.Has(Moved))
	})
}

func TestMarkRemoveThenUnlinkDoesNotDoubleDecrement(t *testing.T) {
	tbl := New()
	r := newStart(1, 5, time.Now())
	tbl.WithWriter(func() {
		tbl.Insert(r)
		tbl.ActivateStart(r)
		tbl.MarkRemove(r)
		tbl.Unlink(r)
	})
	tbl.WithReader(func() {
		require.Empty(t, tbl.ActiveGroupIDs())
		require.Nil(t, tbl.FindByID(1))
	})
}

func TestFindMostRecentOfTypePicksLargestTimeStamp(t *testing.T) {
	tbl := New()
	base := time.Now()
	c1 := &Record{AlarmID: 1, Kind: Change, TimeStamp: base}
	c2 := &Record{AlarmID: 1, Kind: Change, TimeStamp: base.Add(time.Second)}
	tbl.WithWriter(func() {
		tbl.Insert(c1)
		tbl.Insert(c2)
	})
	tbl.WithReader(func() {
		require.Same(t, c2, tbl.FindMostRecentOfType(Change))
	})
}

func TestIsLargestGroup(t *testing.T) {
	tbl := New()
	a := newStart(1, 3, time.Now())
	b := newStart(2, 7, time.Now())
	tbl.WithWriter(func() {
		tbl.Insert(a)
		tbl.Insert(b)
		tbl.ActivateStart(a)
		tbl.ActivateStart(b)
	})
	tbl.WithReader(func() {
		require.True(t, tbl.IsLargestGroup(7))
		require.False(t, tbl.IsLargestGroup(3))
	})
}
