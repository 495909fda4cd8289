package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/core"
	"github.com/nicois/alarmd/internal/display"
	"github.com/nicois/alarmd/internal/metrics"
)

// SchedulerOpts configures newly created Display Schedulers; shared by the
// Starter (first assignment) and the Changer (re-assignment on a
// Change-induced group move).
type SchedulerOpts struct {
	Tick            time.Duration
	TrackerCapacity int
}

func (o SchedulerOpts) tick() time.Duration {
	if o.Tick <= 0 {
		return display.DefaultTick
	}
	return o.Tick
}

// assignLocked places rec onto an assignable Display Scheduler for its
// current GroupID, or creates one. Callers must already hold the Alarm
// Table's writer lock, matching the writer-lock -> display-list-mutex ->
// scheduler-mutex order used throughout. It returns a newly created
// Scheduler so the caller can start its goroutine once the writer lock is
// released (Scheduler.Run acquires that same writer lock itself).
func assignLocked(cc *core.Context, rec *alarm.Record) (created *display.Scheduler) {
	if sched := cc.Registry.FindAssignable(rec.GroupID); sched != nil {
		sched.Assign(rec)
		logger.Info("Alarm Assigned to Existing Display Thread",
			slog.Int("alarm", rec.AlarmID), slog.Int("group", rec.GroupID))
		return nil
	}
	created = display.NewScheduler(rec.GroupID, rec)
	cc.Registry.Add(created)
	logger.Info("New Display Alarm Thread Created for Group(g)", slog.Int("group", rec.GroupID))
	return created
}

func spawnScheduler(ctx context.Context, cc *core.Context, opts SchedulerOpts, sched *display.Scheduler) {
	if sched == nil {
		return
	}
	tracker := metrics.NewTracker[float64](opts.TrackerCapacity)
	go sched.Run(ctx, cc.Table, cc.Registry, cc.RoundRobin, opts.tick(), tracker, cc.Audit)
}
