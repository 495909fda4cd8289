// Package rwlock implements the reader/writer lock the Alarm Table is
// built on: three counting semaphores rather than a plain sync.RWMutex, so
// the "first reader blocks writers, last reader releases them" discipline
// is explicit instead of hidden inside the runtime. Writers get no
// preference: readers arriving while a read epoch is open join it even
// when a writer is waiting.
package rwlock

// semaphore is a binary counting semaphore built from a buffered channel.
type semaphore chan struct{}

func newSemaphore() semaphore {
	s := make(semaphore, 1)
	s <- struct{}{}
	return s
}

func (s semaphore) acquire() { <-s }
func (s semaphore) release() { s <- struct{}{} }

// RWLock is a reader/writer lock assembled from three semaphores. A
// waiting writer enters only once the reader count drops to zero:
//
//   - writeMutex: held exclusively by a writer, or by the first reader for
//     the duration of the read epoch, so no writer can interleave with an
//     active read epoch.
//   - readCountMutex: serializes updates to the reader counter.
//   - listMutex: serializes the readers' own traversals, so at most one
//     reader is ever walking the list at a time even though many readers
//     may hold the read epoch simultaneously.
type RWLock struct {
	writeMutex     semaphore
	readCountMutex semaphore
	listMutex      semaphore
	readers        int
}

// New constructs a ready-to-use RWLock.
func New() *RWLock {
	return &RWLock{
		writeMutex:     newSemaphore(),
		readCountMutex: newSemaphore(),
		listMutex:      newSemaphore(),
	}
}

// RLock begins a read epoch. The first concurrent reader acquires
// writeMutex on behalf of all readers, which is released by the last
// reader in RUnlock. It then claims listMutex so only one reader traverses
// at a time.
func (l *RWLock) RLock() {
	l.readCountMutex.acquire()
	l.readers++
	if l.readers == 1 {
		l.writeMutex.acquire()
	}
	l.readCountMutex.release()

	l.listMutex.acquire()
}

// RUnlock ends a reader's traversal. The last reader to leave releases
// writeMutex, re-admitting writers.
func (l *RWLock) RUnlock() {
	l.listMutex.release()

	l.readCountMutex.acquire()
	l.readers--
	if l.readers == 0 {
		l.writeMutex.release()
	}
	l.readCountMutex.release()
}

// Lock acquires exclusive access for a writer.
func (l *RWLock) Lock() {
	l.writeMutex.acquire()
}

// Unlock releases a writer's exclusive access.
func (l *RWLock) Unlock() {
	l.writeMutex.release()
}
