// Package alarm holds the central data model and the shared Alarm Table:
// a time_stamp-ordered list of alarm records guarded by a three-semaphore
// reader/writer lock, plus a btree-backed index of distinct
// group ids so the Round-Robin Coordinator and the Starter never need a
// full list scan to answer "which groups are active" or "is this the
// largest group id".
package alarm

import (
	"log/slog"
	"strings"
	"time"
)

// Kind identifies what a Record represents. Start is long-lived; every
// other kind is a request record consumed and freed by its Handler.
type Kind int

const (
	Start Kind = iota
	Change
	Cancel
	Suspend
	Reactivate
	View
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "Start"
	case Change:
		return "Change"
	case Cancel:
		return "Cancel"
	case Suspend:
		return "Suspend"
	case Reactivate:
		return "Reactivate"
	case View:
		return "View"
	default:
		return "Unknown"
	}
}

// Status is a bitset over {Active, Suspended, Moved, Remove}. Exactly one
// of Active/Suspended/Remove is set on a Start record; Moved is an
// orthogonal one-shot hand-off flag.
type Status uint8

const (
	Active Status = 1 << iota
	Suspended
	Remove
	Moved
)

func (s Status) Has(bit Status) bool { return s&bit != 0 }

// MaxMessageLen is the trimmed message length bound.
const MaxMessageLen = 127

// TrimMessage trims whitespace and bounds a message to MaxMessageLen bytes.
func TrimMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) > MaxMessageLen {
		msg = msg[:MaxMessageLen]
	}
	return msg
}

// Record is the central entity: either a live Start alarm, or a transient
// request of another Kind awaiting its Handler.
type Record struct {
	AlarmID   int
	GroupID   int
	Kind      Kind
	Status    Status
	TimeStamp time.Time
	Time      int
	Expiry    time.Time
	Interval  int
	Message   string

	prev *Record
	next *Record
}

// LogValue lets slog render a Record compactly in structured log lines.
func (r *Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("alarm", r.AlarmID),
		slog.Int("group", r.GroupID),
		slog.String("kind", r.Kind.String()),
	)
}
