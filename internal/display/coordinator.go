package display

import (
	"sync"

	"github.com/nicois/alarmd/internal/alarm"
)

// Coordinator is the Round-Robin Coordinator: a single shared cursor —
// the most recently displayed alarm's id — that forces Display Schedulers
// to take turns in ascending group-id order, cycling at the largest id.
type Coordinator struct {
	mu     sync.Mutex
	cursor int // alarm id of the most recently displayed alarm, or -1
}

// NewCoordinator constructs a Coordinator with cursor -1 (none).
func NewCoordinator() *Coordinator {
	return &Coordinator{cursor: -1}
}

// IsNextGroup reports whether groupID is the next group allowed to print.
// Callers must already hold the Alarm Table's reader lock, since it
// consults ActiveGroupIDs/FindByID.
func (c *Coordinator) IsNextGroup(table *alarm.Table, groupID int) bool {
	groups := table.ActiveGroupIDs()
	switch len(groups) {
	case 0:
		return true
	case 1:
		return groups[0] == groupID
	}

	c.mu.Lock()
	cursor := c.cursor
	c.mu.Unlock()

	if cursor == -1 {
		return groupID == groups[0]
	}

	cur := table.FindByID(cursor)
	if cur == nil {
		return groupID == groups[0]
	}

	idx := indexOf(groups, cur.GroupID)
	if idx == -1 {
		return groupID == groups[0]
	}
	next := groups[(idx+1)%len(groups)]
	return groupID == next
}

// Advance records alarmID as the most recently displayed alarm. If
// groupID is the largest active group id, the cursor resets to -1,
// starting a new cycle at the smallest group next time.
func (c *Coordinator) Advance(table *alarm.Table, alarmID, groupID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if table.IsLargestGroup(groupID) {
		c.cursor = -1
		return
	}
	c.cursor = alarmID
}

func indexOf(groups []int, g int) int {
	for i, v := range groups {
		if v == g {
			return i
		}
	}
	return -1
}
