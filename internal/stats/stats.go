// Package stats implements a periodic status reporter: a ticker that logs
// a summary of Request Queue depth and active Display Scheduler count.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicois/alarmd/internal/core"
)

var logger = slog.Default()

// SetLogger overrides the package logger.
func SetLogger(l *slog.Logger) { logger = l }

// Run logs a summary line every period until ctx is cancelled.
func Run(ctx context.Context, cc *core.Context, period time.Duration) {
	if period <= 0 {
		period = 10 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		schedulers := cc.Registry.List()
		var groups []int
		for _, s := range schedulers {
			groups = append(groups, s.GroupID)
		}
		logger.Info("alarmd status",
			slog.Int("queue_len", cc.Queue.Len()),
			slog.Int("queue_capacity", cc.Queue.Capacity()),
			slog.Int("active_schedulers", len(schedulers)),
			slog.Any("groups", groups),
		)
	}
}
