// Package dispatch implements the Dispatcher: the single worker that
// drains the Request Queue, places each request into the Alarm Table or
// the Changer's pending list, and wakes exactly one Handler condition per
// request kind.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/core"
)

var logger = slog.Default()

// SetLogger overrides the package logger.
func SetLogger(l *slog.Logger) { logger = l }

// Run drains cc.Queue until ctx is cancelled, routing each request by
// kind. Change requests go to the Changer's private list; every other
// kind is inserted directly into the Alarm Table under the writer lock.
func Run(ctx context.Context, cc *core.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		r, slot := cc.Queue.Dequeue()
		if r == nil {
			continue
		}

		switch r.Kind {
		case alarm.Change:
			cc.Changes.Append(r)
		default:
			cc.Table.WithWriter(func() {
				cc.Table.Insert(r)
			})
		}

		logger.Info("Dispatcher has Retrieved Request from Request Queue",
			slog.Int("slot", slot), slog.Any("record", r))

		if cond := cc.CondFor(r.Kind); cond != nil {
			cond.Signal()
		}
	}
}
