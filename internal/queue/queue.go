// Package queue implements the Request Queue: a fixed-capacity ring buffer
// of *alarm.Record pointers shared between the single-producer Input Loop
// and the single-consumer Dispatcher. It tolerates multiple producers
// even though only one is used today.
package queue

import (
	"log/slog"
	"sync"

	"github.com/nicois/alarmd/internal/alarm"
)

var logger = slog.Default()

// SetLogger overrides the package logger.
func SetLogger(l *slog.Logger) { logger = l }

// DefaultCapacity is the default ring size.
const DefaultCapacity = 4

// Queue is a bounded, FIFO ring buffer of alarm records.
type Queue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf   []*alarm.Record
	head  int
	tail  int
	count int
}

// New constructs a Queue with the given capacity. capacity <= 0 uses
// DefaultCapacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &Queue{buf: make([]*alarm.Record, capacity)}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue blocks while the queue is full, stores r at head, and returns
// the slot index used, so callers can log it.
func (q *Queue) Enqueue(r *alarm.Record) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == len(q.buf) {
		q.notFull.Wait()
	}
	idx := q.head
	q.buf[idx] = r
	q.head = (q.head + 1) % len(q.buf)
	q.count++
	logger.Debug("Input Loop has Stored Request into Request Queue", slog.Int("slot", idx))
	q.notEmpty.Signal()
	return idx
}

// Dequeue blocks while the queue is empty, reads from tail, and returns
// the record plus the slot index it occupied.
func (q *Queue) Dequeue() (*alarm.Record, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 {
		q.notEmpty.Wait()
	}
	idx := q.tail
	r := q.buf[idx]
	q.buf[idx] = nil
	q.tail = (q.tail + 1) % len(q.buf)
	q.count--
	logger.Debug("Consumer Thread has Retrieved", slog.Int("slot", idx))
	q.notFull.Signal()
	return r, idx
}

// Len reports the current number of queued requests, for the stats
// reporter.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Capacity reports the configured ring size.
func (q *Queue) Capacity() int {
	return len(q.buf)
}
