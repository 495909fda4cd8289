package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/core"
)

// RunCanceller waits on RemoveCond, finds the most recent Cancel request,
// locates the Start record it names, and marks it for removal under the
// writer lock. The Display Scheduler holding that alarm observes the
// Remove status on its next tick and unlinks/frees it.
func RunCanceller(ctx context.Context, cc *core.Context) {
	for {
		cc.RemoveCond.Wait()
		for {
			var request *alarm.Record
			cc.Table.WithReader(func() {
				request = cc.Table.FindMostRecentOfType(alarm.Cancel)
			})
			if request == nil {
				break
			}

			var cancelled bool
			var targetID, groupID int
			cc.Table.WithWriter(func() {
				if target := cc.Table.FindByID(request.AlarmID); target != nil {
					cc.Table.MarkRemove(target)
					cancelled = true
					targetID, groupID = target.AlarmID, target.GroupID
				}
				cc.Table.Unlink(request)
			})
			if cancelled {
				_ = cc.Audit.Append(ctx, audit.Event{At: time.Now(), Kind: "cancel_requested", AlarmID: targetID, GroupID: groupID})
			}
		}
	}
}
