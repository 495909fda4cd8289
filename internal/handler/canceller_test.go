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

func TestCancellerMarksStartForRemove(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cc := core.New(4)
		go RunCanceller(context.Background(), cc)

		start := &alarm.Record{AlarmID: 1, GroupID: 5, Kind: alarm.Start, TimeStamp: time.Now()}
		cc.Table.WithWriter(func() {
			cc.Table.Insert(start)
			cc.Table.ActivateStart(start)
		})

		cancel := &alarm.Record{AlarmID: 1, Kind: alarm.Cancel, TimeStamp: time.Now().Add(time.Millisecond)}
		cc.Table.WithWriter(func() { cc.Table.Insert(cancel) })
		cc.RemoveCond.Signal()
		synctest.Wait()

		require.True(t, start.Status.Has(alarm.Remove))
		cc.Table.WithReader(func() {
			require.Nil(t, cc.Table.FindByType(alarm.Cancel))
		})
	})
}
