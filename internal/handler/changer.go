package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/core"
	"github.com/nicois/alarmd/internal/display"
)

// RunChanger waits on ChangeCond and, for every pending Change record the
// Dispatcher has queued, looks up the target Start record and copies in
// Time/Expiry/Message. A group-id change also raises the Moved flag and
// re-assigns the alarm to a Scheduler for its new group, since the
// Changer is the one observing the move.
func RunChanger(ctx context.Context, cc *core.Context, opts SchedulerOpts) {
	for {
		cc.ChangeCond.Wait()
		for _, change := range cc.Changes.DrainAll() {
			var created *display.Scheduler
			var targetID, oldGroup, newGroup int
			var found, moved bool
			cc.Table.WithWriter(func() {
				target := cc.Table.FindByID(change.AlarmID)
				if target == nil {
					logger.Info("Invalid Change Alarm Request(id)", slog.Int("alarm", change.AlarmID))
					return
				}
				found = true
				targetID, oldGroup = target.AlarmID, target.GroupID

				target.Time = change.Time
				target.Expiry = change.Expiry
				target.Message = change.Message

				if change.GroupID != target.GroupID {
					cc.Table.ChangeGroup(target, change.GroupID)
					created = assignLocked(cc, target)
					moved, newGroup = true, target.GroupID
				}
			})
			if found {
				kind := "changed"
				group := oldGroup
				if moved {
					kind = "moved"
					group = newGroup
				}
				_ = cc.Audit.Append(ctx, audit.Event{At: time.Now(), Kind: kind, AlarmID: targetID, GroupID: group})
			}
			spawnScheduler(ctx, cc, opts, created)
		}
	}
}
