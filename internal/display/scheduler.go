package display

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/metrics"
)

// DefaultTick is the Display Scheduler's main-loop period.
const DefaultTick = time.Second

// Run is the Display Scheduler's main loop. It owns up to two alarms for
// GroupID and exits once both are gone. samples, if non-nil, receives
// each actual print-to-print gap; the stats reporter does not read these
// samples.
//
// Reconciliation can both read the Alarm Table and, on expiry/cancel/move,
// unlink a record from it. Taking a reader lock and upgrading it to a
// writer lock mid-cycle would deadlock against this lock's non-reentrant
// semaphores, so Run takes the Alarm Table's *writer* lock for the whole
// per-tick critical section instead. Most ticks perform no mutation at
// all, so this only serializes against Handlers and other Display
// Schedulers exactly as the usual lock order already requires.
func (s *Scheduler) Run(ctx context.Context, table *alarm.Table, registry *Registry, rr *Coordinator, tick time.Duration, samples *metrics.Tracker[float64], sink audit.Sink) {
	if sink == nil {
		sink = audit.NopSink{}
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
		}

		now := time.Now()

		if s.Count() == 0 {
			logger.Info("No More Alarms in Group: Display Thread exiting", slog.Int("group", s.GroupID))
			registry.Remove(s)
			return
		}

		s.materializeMissingSnapshots(table)

		table.WithWriter(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if !rr.IsNextGroup(table, s.GroupID) {
				return
			}

			var printedAlarmID int
			var printed bool

			if s.slot1 != nil {
				rec, snap, didPrint := reconcile(ctx, table, now, s.slot1, s.snap1, s.GroupID, samples, sink)
				s.slot1, s.snap1 = rec, snap
				if didPrint {
					printedAlarmID, printed = snap.AlarmID, true
				}
			}
			if s.slot2 != nil {
				rec, snap, didPrint := reconcile(ctx, table, now, s.slot2, s.snap2, s.GroupID, samples, sink)
				s.slot2, s.snap2 = rec, snap
				if didPrint {
					printedAlarmID, printed = snap.AlarmID, true
				}
			}

			if printed {
				rr.Advance(table, printedAlarmID, s.GroupID)
			}

			s.recountLocked()
		})
	}
}

func (s *Scheduler) recountLocked() {
	n := 0
	if s.slot1 != nil {
		n++
	}
	if s.slot2 != nil {
		n++
	}
	s.count = n
}

func (s *Scheduler) materializeMissingSnapshots(table *alarm.Table) {
	s.mu.Lock()
	need1 := s.slot1 != nil && s.snap1 == nil
	need2 := s.slot2 != nil && s.snap2 == nil
	s.mu.Unlock()
	if !need1 && !need2 {
		return
	}
	table.WithReader(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if need1 && s.slot1 != nil && s.snap1 == nil {
			s.snap1 = snapshotOf(s.slot1)
		}
		if need2 && s.slot2 != nil && s.snap2 == nil {
			s.snap2 = snapshotOf(s.slot2)
		}
	})
}

func snapshotOf(r *alarm.Record) *Snapshot {
	return &Snapshot{
		AlarmID:   r.AlarmID,
		GroupID:   r.GroupID,
		Status:    r.Status,
		TimeStamp: r.TimeStamp,
		Interval:  r.Interval,
		Time:      r.Time,
		Message:   r.Message,
	}
}

// reconcile applies the per-tick reconciliation rules to one slot. It
// returns the (possibly nil) record/snapshot that should remain in the
// slot afterward, and whether a periodic print line was emitted this
// cycle. Each slot is reconciled independently, so freeing one slot never
// disturbs the other slot's snapshot when only one of the two expires in
// the same tick. Callers must already hold the Alarm Table's writer lock.
func reconcile(ctx context.Context, table *alarm.Table, now time.Time, rec *alarm.Record, snap *Snapshot, ownerGroup int, samples *metrics.Tracker[float64], sink audit.Sink) (*alarm.Record, *Snapshot, bool) {
	live := table.FindByID(rec.AlarmID)

	switch {
	case live == nil:
		logger.Info("Display Thread Has Stopped Printing Message of Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup))
		table.Unlink(rec)
		_ = sink.Append(ctx, audit.Event{At: now, Kind: "cancelled", AlarmID: rec.AlarmID, GroupID: ownerGroup})
		return nil, nil, false

	case live.Status.Has(alarm.Remove):
		logger.Info("Display Thread Has Stopped Printing Cancelled Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup))
		table.Unlink(live)
		_ = sink.Append(ctx, audit.Event{At: now, Kind: "cancelled", AlarmID: rec.AlarmID, GroupID: ownerGroup})
		return nil, nil, false

	case !live.Expiry.IsZero() && !live.Expiry.After(now):
		logger.Info("Display Thread Has Stopped Printing Expired Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup))
		table.MarkRemove(live)
		table.Unlink(live)
		_ = sink.Append(ctx, audit.Event{At: now, Kind: "expired", AlarmID: rec.AlarmID, GroupID: ownerGroup})
		return nil, nil, false

	case live.GroupID != ownerGroup:
		logger.Info("Display Thread Has Stopped Printing Message of Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup), slog.Int("moved_to_group", live.GroupID))
		// The alarm lives on under its new group's Scheduler; only this
		// slot is released.
		return nil, nil, false

	case live.Status.Has(alarm.Moved) && !snap.Status.Has(alarm.Moved):
		logger.Info("Display Thread Has Taken Over Printing Message of Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup))
		newSnap := *snap
		newSnap.Status = live.Status
		newSnap.GroupID = live.GroupID
		return live, &newSnap, false

	case live.Status.Has(alarm.Suspended) != snap.Status.Has(alarm.Suspended):
		if live.Status.Has(alarm.Suspended) {
			logger.Info("Display Thread Suspends Printing of Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup))
		} else {
			logger.Info("Display Thread Reactivates Printing of Alarm", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup))
		}
		newSnap := *snap
		newSnap.Status = live.Status
		return live, &newSnap, false

	case live.Message != snap.Message:
		logger.Info("Display Thread Starts to Print Changed Message Alarm", slog.Int("alarm", rec.AlarmID))
		newSnap := *snap
		newSnap.Message = live.Message
		return live, &newSnap, false

	case live.Interval != snap.Interval:
		logger.Info("Display Thread Starts to Print Changed Interval Value Alarm", slog.Int("alarm", rec.AlarmID))
		newSnap := *snap
		newSnap.Interval = live.Interval
		return live, &newSnap, false

	default:
		if snap.Status.Has(alarm.Suspended) {
			return live, snap, false
		}
		if snap.LastPrintTime.IsZero() || now.Sub(snap.LastPrintTime) > time.Duration(snap.Interval)*time.Second {
			logger.Info("Alarm Printed by Alarm Display Thread", slog.Int("alarm", rec.AlarmID), slog.Int("group", ownerGroup), slog.String("message", live.Message))
			if samples != nil && !snap.LastPrintTime.IsZero() {
				samples.Observe(now.Sub(snap.LastPrintTime).Seconds())
			}
			newSnap := *snap
			newSnap.LastPrintTime = now
			return live, &newSnap, true
		}
		return live, snap, false
	}
}
