package handler

import (
	"log/slog"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/core"
)

// RunViewer waits on ViewCond, and for the most recent View request,
// enumerates every Start record whose TimeStamp is strictly earlier than
// the request's own TimeStamp, emitting one log line per alarm. Reading
// and unlinking are done in separate critical sections so logging never
// happens while a lock is held.
func RunViewer(cc *core.Context) {
	for {
		cc.ViewCond.Wait()
		for {
			var request *alarm.Record
			cc.Table.WithReader(func() {
				request = cc.Table.FindMostRecentOfType(alarm.View)
			})
			if request == nil {
				break
			}

			var visible []*alarm.Record
			cc.Table.WithReader(func() {
				for _, s := range cc.Table.FindByType(alarm.Start) {
					if s.TimeStamp.Before(request.TimeStamp) {
						visible = append(visible, s)
					}
				}
			})

			logger.Info("View Alarms at View Time", slog.Time("view_time", request.TimeStamp), slog.Int("count", len(visible)))
			for _, s := range visible {
				logger.Info("View Alarms at View Time: Alarm",
					slog.Int("alarm", s.AlarmID), slog.Int("group", s.GroupID),
					slog.String("status", statusString(s.Status)), slog.String("message", s.Message))
			}

			cc.Table.WithWriter(func() {
				cc.Table.Unlink(request)
			})
		}
	}
}

func statusString(s alarm.Status) string {
	switch {
	case s.Has(alarm.Remove):
		return "Remove"
	case s.Has(alarm.Suspended):
		return "Suspended"
	case s.Has(alarm.Active):
		return "Active"
	default:
		return "Unassigned"
	}
}
