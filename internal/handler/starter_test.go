package handler

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/core"
)

func TestStarterActivatesAndCreatesScheduler(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cc := core.New(4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go RunStarter(ctx, cc, SchedulerOpts{Tick: time.Second})

		r := &alarm.Record{AlarmID: 1, GroupID: 10, Kind: alarm.Start, TimeStamp: time.Now(), Interval: 5, Expiry: time.Now().Add(time.Hour), Message: "hello"}
		cc.Table.WithWriter(func() { cc.Table.Insert(r) })
		cc.StartCond.Signal()
		synctest.Wait()

		cc.Table.WithReader(func() {
			require.True(t, r.Status.Has(alarm.Active))
			require.Equal(t, []int{10}, cc.Table.ActiveGroupIDs())
		})
		require.Len(t, cc.Registry.List(), 1)
	})
}

func TestStarterAssignsSecondAlarmToSameScheduler(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cc := core.New(4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go RunStarter(ctx, cc, SchedulerOpts{Tick: time.Second})

		r1 := &alarm.Record{AlarmID: 1, GroupID: 10, Kind: alarm.Start, TimeStamp: time.Now(), Interval: 5, Expiry: time.Now().Add(time.Hour)}
		cc.Table.WithWriter(func() { cc.Table.Insert(r1) })
		cc.StartCond.Signal()
		synctest.Wait()

		r2 := &alarm.Record{AlarmID: 2, GroupID: 10, Kind: alarm.Start, TimeStamp: time.Now().Add(time.Millisecond), Interval: 5, Expiry: time.Now().Add(time.Hour)}
		cc.Table.WithWriter(func() { cc.Table.Insert(r2) })
		cc.StartCond.Signal()
		synctest.Wait()

		require.Len(t, cc.Registry.List(), 1)
		require.Equal(t, 2, cc.Registry.List()[0].Count())
	})
}
