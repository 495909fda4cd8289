// Package console implements the external interfaces of the alarm
// manager: the command grammar parser, a line-preserving output sink, and
// a rate-limited input loop that turns typed commands into alarm.Record
// requests and enqueues them on the Request Queue.
package console

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/nicois/alarmd/internal/alarm"
)

// ErrInvalidParameters and ErrUnrecognizedFormat are the two rejection
// reasons for a bad command line: a well-formed command with a
// non-positive integer field, and a command that doesn't match any known
// grammar.
var (
	ErrInvalidParameters   = fmt.Errorf("Invalid parameters")
	ErrUnrecognizedFormat  = fmt.Errorf("Unrecognized command format")
)

var (
	startPattern  = regexp.MustCompile(`^Start_Alarm\((\d+)\):\s*Group\((\d+)\)\s+(\d+)\s+(\d+)\s+(.*)$`)
	changePattern = regexp.MustCompile(`^Change_Alarm\((\d+)\):\s*Group\((\d+)\)\s+(\d+)\s+(.*)$`)
	cancelPattern = regexp.MustCompile(`^Cancel_Alarm\((\d+)\)$`)
	suspendPattern    = regexp.MustCompile(`^Suspend_Alarm\((\d+)\)$`)
	reactivatePattern = regexp.MustCompile(`^Reactivate_Alarm\((\d+)\)$`)
	viewPattern       = regexp.MustCompile(`^View_Alarms$`)
)

// IsQuit reports whether line is a request to terminate the program.
func IsQuit(line string) bool {
	return line == "quit" || line == "exit"
}

// Parse turns one console line into an alarm.Record request, assigning
// now as its TimeStamp. It returns ErrInvalidParameters for a
// non-positive integer field and ErrUnrecognizedFormat for anything that
// matches no known command.
func Parse(line string, now time.Time) (*alarm.Record, error) {
	if m := startPattern.FindStringSubmatch(line); m != nil {
		id, err1 := positiveInt(m[1])
		gid, err2 := positiveInt(m[2])
		interval, err3 := positiveInt(m[3])
		t, err4 := positiveInt(m[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, ErrInvalidParameters
		}
		return &alarm.Record{
			AlarmID:   id,
			GroupID:   gid,
			Kind:      alarm.Start,
			TimeStamp: now,
			Interval:  interval,
			Time:      t,
			Expiry:    now.Add(time.Duration(t) * time.Second),
			Message:   alarm.TrimMessage(m[5]),
		}, nil
	}

	if m := changePattern.FindStringSubmatch(line); m != nil {
		id, err1 := positiveInt(m[1])
		gid, err2 := positiveInt(m[2])
		t, err3 := positiveInt(m[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, ErrInvalidParameters
		}
		return &alarm.Record{
			AlarmID:   id,
			GroupID:   gid,
			Kind:      alarm.Change,
			TimeStamp: now,
			Time:      t,
			Expiry:    now.Add(time.Duration(t) * time.Second),
			Message:   alarm.TrimMessage(m[4]),
		}, nil
	}

	if m := cancelPattern.FindStringSubmatch(line); m != nil {
		id, err := positiveInt(m[1])
		if err != nil {
			return nil, ErrInvalidParameters
		}
		return &alarm.Record{AlarmID: id, Kind: alarm.Cancel, TimeStamp: now}, nil
	}

	if m := suspendPattern.FindStringSubmatch(line); m != nil {
		id, err := positiveInt(m[1])
		if err != nil {
			return nil, ErrInvalidParameters
		}
		return &alarm.Record{AlarmID: id, Kind: alarm.Suspend, TimeStamp: now}, nil
	}

	if m := reactivatePattern.FindStringSubmatch(line); m != nil {
		id, err := positiveInt(m[1])
		if err != nil {
			return nil, ErrInvalidParameters
		}
		return &alarm.Record{AlarmID: id, Kind: alarm.Reactivate, TimeStamp: now}, nil
	}

	if viewPattern.MatchString(line) {
		return &alarm.Record{Kind: alarm.View, TimeStamp: now}, nil
	}

	return nil, ErrUnrecognizedFormat
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be strictly positive, got %d", n)
	}
	return n, nil
}
