package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicois/alarmd/internal/alarm"
)

func TestFIFOOrder(t *testing.T) {
	q := New(4)
	for i := 1; i <= 4; i++ {
		q.Enqueue(&alarm.Record{AlarmID: i})
	}
	for i := 1; i <= 4; i++ {
		r, _ := q.Dequeue()
		require.Equal(t, i, r.AlarmID)
	}
}

func TestEnqueueBlocksWhenFull(t *testing.T) {
	q := New(1)
	q.Enqueue(&alarm.Record{AlarmID: 1})

	blocked := make(chan struct{})
	go func() {
		q.Enqueue(&alarm.Record{AlarmID: 2})
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("enqueue should have blocked on a full queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.Dequeue()
	select {
	case <-blocked:
	case <-time.After(time.Second):
		t.Fatal("enqueue never unblocked after a dequeue freed a slot")
	}
}

func TestDequeueBlocksWhenEmpty(t *testing.T) {
	q := New(2)
	got := make(chan *alarm.Record)
	go func() {
		r, _ := q.Dequeue()
		got <- r
	}()

	select {
	case <-got:
		t.Fatal("dequeue should have blocked on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.Enqueue(&alarm.Record{AlarmID: 7})
	select {
	case r := <-got:
		require.Equal(t, 7, r.AlarmID)
	case <-time.After(time.Second):
		t.Fatal("dequeue never unblocked after an enqueue")
	}
}

func TestNeverExceedsCapacity(t *testing.T) {
	q := New(4)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Enqueue(&alarm.Record{AlarmID: i})
		}(i)
	}
	for i := 0; i < 100; i++ {
		_, idx := q.Dequeue()
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, q.Capacity())
	}
	wg.Wait()
	require.Equal(t, 0, q.Len())
}

func TestSlotIndexWrapsFIFO(t *testing.T) {
	q := New(2)
	_, idx0 := 0, q.Enqueue(&alarm.Record{AlarmID: 1})
	require.Equal(t, 0, idx0)
	idx1 := q.Enqueue(&alarm.Record{AlarmID: 2})
	require.Equal(t, 1, idx1)
	q.Dequeue()
	idx2 := q.Enqueue(&alarm.Record{AlarmID: 3})
	require.Equal(t, 0, idx2)
}
