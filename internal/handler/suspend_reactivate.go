package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/core"
)

// RunSuspendReactivator waits on SuspendCond until a Suspend- or
// Reactivate-kind request is present, picks the most recent one, finds the
// Start record it refers to (the one with the same AlarmID whose
// TimeStamp is strictly earlier), and applies the transition. Suspend on
// an already-Suspended alarm and Reactivate on an already-Active one are
// no-ops, and so is any other combination.
func RunSuspendReactivator(ctx context.Context, cc *core.Context) {
	for {
		cc.SuspendCond.Wait()
		for {
			var request *alarm.Record
			cc.Table.WithReader(func() {
				mostRecentSuspend := cc.Table.FindMostRecentOfType(alarm.Suspend)
				mostRecentReactivate := cc.Table.FindMostRecentOfType(alarm.Reactivate)
				switch {
				case mostRecentSuspend == nil:
					request = mostRecentReactivate
				case mostRecentReactivate == nil:
					request = mostRecentSuspend
				case mostRecentReactivate.TimeStamp.After(mostRecentSuspend.TimeStamp):
					request = mostRecentReactivate
				default:
					request = mostRecentSuspend
				}
			})
			if request == nil {
				break
			}

			var event *audit.Event
			cc.Table.WithWriter(func() {
				target := cc.Table.FindEarlierStart(request.AlarmID, request.TimeStamp)
				if target != nil {
					switch {
					case request.Kind == alarm.Suspend && target.Status.Has(alarm.Active):
						cc.Table.SetSuspended(target)
						logger.Info("Alarm(id) Suspended", slog.Int("alarm", target.AlarmID))
						event = &audit.Event{At: time.Now(), Kind: "suspended", AlarmID: target.AlarmID, GroupID: target.GroupID}
					case request.Kind == alarm.Reactivate && target.Status.Has(alarm.Suspended):
						cc.Table.SetActive(target)
						logger.Info("Alarm(id) Reactivated", slog.Int("alarm", target.AlarmID))
						event = &audit.Event{At: time.Now(), Kind: "reactivated", AlarmID: target.AlarmID, GroupID: target.GroupID}
					}
				}
				cc.Table.Unlink(request)
			})
			if event != nil {
				_ = cc.Audit.Append(ctx, *event)
			}
		}
	}
}
