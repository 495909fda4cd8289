// Package handler implements the five cooperating Handlers: Starter,
// Changer, Suspender/Reactivator, Canceller, and Viewer. Each is a
// long-lived worker that waits on its own core.Cond, re-checks its
// predicate Mesa-style after waking, and mutates the Alarm Table under
// the writer lock before unlinking and freeing the request record it
// consumed.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/core"
	"github.com/nicois/alarmd/internal/display"
)

var logger = slog.Default()

// SetLogger overrides the package logger.
func SetLogger(l *slog.Logger) { logger = l }

// RunStarter waits on StartCond, picks the most recently admitted
// unassigned Start record, activates it, and either assigns it to an
// existing Display Scheduler for its group or creates a new one. The
// writer lock is held for the whole assignment decision since it only
// ever touches in-memory structures and never blocks on I/O; the new
// Scheduler's goroutine is started only after the writer lock is
// released, since Scheduler.Run acquires that same lock.
func RunStarter(ctx context.Context, cc *core.Context, opts SchedulerOpts) {
	for {
		cc.StartCond.Wait()
		for {
			var target *alarm.Record
			cc.Table.WithReader(func() {
				target = cc.Table.FindMostRecentUnassignedStart()
			})
			if target == nil {
				break
			}

			var created *display.Scheduler
			cc.Table.WithWriter(func() {
				cc.Table.ActivateStart(target)
				logger.Info("Start_Alarm(id) Inserted",
					slog.Int("alarm", target.AlarmID), slog.Int("group", target.GroupID))
				created = assignLocked(cc, target)
			})

			_ = cc.Audit.Append(ctx, audit.Event{At: time.Now(), Kind: "started", AlarmID: target.AlarmID, GroupID: target.GroupID})
			spawnScheduler(ctx, cc, opts, created)
		}
	}
}
