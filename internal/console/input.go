package console

import (
	"bufio"
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nicois/alarmd/internal/core"
)

var logger = slog.Default()

// SetLogger overrides the package logger.
func SetLogger(l *slog.Logger) { logger = l }

// lines adapts an io.Reader into a sequence of trimmed, non-empty lines:
// read until EOF or the reader errors, skip blank lines, yield the rest.
func lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		br := bufio.NewReader(r)
		for {
			text, err := br.ReadString('\n')
			text = strings.TrimRight(text, "\n")
			text = strings.TrimSpace(text)
			if text != "" {
				if !yield(text) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}

// Run is the Input Loop: it reads lines from in, rate-limits ingestion
// through limiter.Wait, parses each line per the grammar, and enqueues the
// resulting request. Parse errors are written to sink rather than
// enqueued. Returns when in is exhausted, ctx is cancelled, or a quit/exit
// line is read.
func Run(ctx context.Context, in io.Reader, sink *LineWriter, cc *core.Context, limiter *rate.Limiter) {
	for line := range lines(in) {
		if ctx.Err() != nil {
			return
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}
		if IsQuit(line) {
			return
		}

		r, err := Parse(line, time.Now())
		if err != nil {
			sink.WriteLine(err.Error())
			continue
		}

		slot := cc.Queue.Enqueue(r)
		logger.Info("Input Loop has Enqueued Request", slog.Int("slot", slot), slog.Any("record", r))
	}
}
