package core

import (
	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/display"
	"github.com/nicois/alarmd/internal/queue"
)

// Context is the explicit "core context" bundling the Alarm Table, the
// Request Queue, the Changer's private pending list, one Cond per Handler
// kind, and the Display Scheduler registry plus Round-Robin Coordinator.
// Every worker goroutine is constructed with a *Context instead of reaching
// for shared state of its own.
type Context struct {
	Table   *alarm.Table
	Queue   *queue.Queue
	Changes *ChangeList

	StartCond      *Cond
	ChangeCond     *Cond
	SuspendCond    *Cond
	RemoveCond     *Cond
	ViewCond       *Cond

	Registry    *display.Registry
	RoundRobin  *display.Coordinator

	Audit audit.Sink
}

// SetAudit installs the outbound event journal. Handlers call cc.Audit
// directly, so this must be called before any worker goroutine starts if
// a non-default sink is wanted; the zero value otherwise stays at the
// NopSink installed by New.
func (c *Context) SetAudit(sink audit.Sink) {
	if sink == nil {
		sink = audit.NopSink{}
	}
	c.Audit = sink
}

// New constructs a Context with a fresh Alarm Table, a Request Queue of
// the given capacity (<=0 uses queue.DefaultCapacity), and all five
// Handler conditions ready to wait on.
func New(queueCapacity int) *Context {
	return &Context{
		Table:   alarm.New(),
		Queue:   queue.New(queueCapacity),
		Changes: NewChangeList(),

		StartCond:   NewCond(),
		ChangeCond:  NewCond(),
		SuspendCond: NewCond(),
		RemoveCond:  NewCond(),
		ViewCond:    NewCond(),

		Registry:   display.NewRegistry(),
		RoundRobin: display.NewCoordinator(),

		Audit: audit.NopSink{},
	}
}

// CondFor returns the Cond the Dispatcher signals for a given request
// Kind. Suspend and Reactivate share SuspendCond.
func (c *Context) CondFor(k alarm.Kind) *Cond {
	switch k {
	case alarm.Start:
		return c.StartCond
	case alarm.Change:
		return c.ChangeCond
	case alarm.Cancel:
		return c.RemoveCond
	case alarm.Suspend, alarm.Reactivate:
		return c.SuspendCond
	case alarm.View:
		return c.ViewCond
	default:
		return nil
	}
}
