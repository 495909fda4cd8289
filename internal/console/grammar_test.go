package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicois/alarmd/internal/alarm"
)

func TestParseStartAlarm(t *testing.T) {
	now := time.Now()
	r, err := Parse("Start_Alarm(1): Group(10) 2 60 hello world", now)
	require.NoError(t, err)
	require.Equal(t, 1, r.AlarmID)
	require.Equal(t, 10, r.GroupID)
	require.Equal(t, alarm.Start, r.Kind)
	require.Equal(t, 2, r.Interval)
	require.Equal(t, 60, r.Time)
	require.Equal(t, "hello world", r.Message)
}

func TestParseChangeAlarm(t *testing.T) {
	r, err := Parse("Change_Alarm(1): Group(10) 60 world", time.Now())
	require.NoError(t, err)
	require.Equal(t, alarm.Change, r.Kind)
	require.Equal(t, 10, r.GroupID)
	require.Equal(t, "world", r.Message)
}

func TestParseCancelSuspendReactivateView(t *testing.T) {
	cases := []struct {
		line string
		kind alarm.Kind
	}{
		{"Cancel_Alarm(1)", alarm.Cancel},
		{"Suspend_Alarm(1)", alarm.Suspend},
		{"Reactivate_Alarm(1)", alarm.Reactivate},
		{"View_Alarms", alarm.View},
	}
	for _, c := range cases {
		r, err := Parse(c.line, time.Now())
		require.NoError(t, err, c.line)
		require.Equal(t, c.kind, r.Kind, c.line)
	}
}

func TestParseRejectsZeroFields(t *testing.T) {
	for _, line := range []string{
		"Start_Alarm(0): Group(10) 2 60 hi",
		"Start_Alarm(1): Group(0) 2 60 hi",
		"Start_Alarm(1): Group(10) 0 60 hi",
		"Start_Alarm(1): Group(10) 2 0 hi",
	} {
		_, err := Parse(line, time.Now())
		require.ErrorIs(t, err, ErrInvalidParameters, line)
	}
}

func TestParseRejectsUnrecognizedFormat(t *testing.T) {
	_, err := Parse("Do_Something_Weird(1)", time.Now())
	require.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestIsQuit(t *testing.T) {
	require.True(t, IsQuit("quit"))
	require.True(t, IsQuit("exit"))
	require.False(t, IsQuit("View_Alarms"))
}
