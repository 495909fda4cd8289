// Command alarmd runs the multi-threaded alarm manager: an interactive
// console that accepts Start/Change/Cancel/Suspend/Reactivate/View
// commands and a set of background workers that print each active
// alarm's message on its configured interval.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/time/rate"

	"github.com/nicois/alarmd/internal/alarm"
	"github.com/nicois/alarmd/internal/audit"
	"github.com/nicois/alarmd/internal/config"
	"github.com/nicois/alarmd/internal/console"
	"github.com/nicois/alarmd/internal/core"
	"github.com/nicois/alarmd/internal/corelog"
	"github.com/nicois/alarmd/internal/dispatch"
	"github.com/nicois/alarmd/internal/display"
	"github.com/nicois/alarmd/internal/handler"
	"github.com/nicois/alarmd/internal/queue"
	"github.com/nicois/alarmd/internal/stats"
)

func main() {
	var opts config.Opts
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	// out is both the Input Loop's line-preserving prompt sink and the
	// destination for every log line: constructing the logger on top of it
	// means Dispatcher/Handler/Display Scheduler/Queue/Alarm Table log
	// output shares the same clear-and-redraw mutex as console output, so
	// nothing ever tears a line the user is mid-typing.
	out := console.NewLineWriter(os.Stdout, func() string { return "> " })
	logger := corelog.New(out, opts.Debug)
	slog.SetDefault(logger)
	for _, setLogger := range []func(*slog.Logger){
		alarm.SetLogger, audit.SetLogger, console.SetLogger, dispatch.SetLogger,
		display.SetLogger, handler.SetLogger, queue.SetLogger, stats.SetLogger,
	} {
		setLogger(logger)
	}

	sink := buildAuditSink(context.Background(), opts, logger)

	interrupts := make(chan os.Signal, 2)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	inputCtx, stopInput := context.WithCancel(ctx)
	defer stopInput()

	// First interrupt: stop the Input Loop from accepting new commands and
	// let in-flight Handlers/Display Schedulers drain on the shared ctx.
	// Second interrupt: cancel ctx itself, tearing everything down at once.
	go func() {
		select {
		case <-interrupts:
			logger.Warn("received interrupt, no longer accepting new commands; hit ctrl-C again to exit immediately")
			stopInput()
		case <-ctx.Done():
			return
		}
		select {
		case <-interrupts:
			logger.Warn("second interrupt received, shutting down now")
			cancel()
		case <-ctx.Done():
		}
	}()

	cc := core.New(opts.QueueCapacity)
	cc.SetAudit(sink)

	schedOpts := handler.SchedulerOpts{
		Tick:            time.Duration(derefDuration(opts.Tick, time.Second)),
		TrackerCapacity: opts.TrackerCapacity,
	}

	go dispatch.Run(ctx, cc)
	go handler.RunStarter(ctx, cc, schedOpts)
	go handler.RunChanger(ctx, cc, schedOpts)
	go handler.RunSuspendReactivator(ctx, cc)
	go handler.RunCanceller(ctx, cc)
	go handler.RunViewer(cc)
	go stats.Run(ctx, cc, time.Duration(derefDuration(opts.StatsPeriod, 10*time.Second)))
	go audit.RunPeriodicFlush(ctx, sink, time.Duration(derefDuration(opts.AuditFlush, 5*time.Second)))

	var limiter *rate.Limiter
	if opts.RateLimit != nil {
		bucket := opts.RateLimitBucketSize
		if bucket < 1 {
			bucket = 1
		}
		limiter = rate.NewLimiter(rate.Every(*opts.RateLimit), bucket)
	}

	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		console.Run(inputCtx, os.Stdin, out, cc, limiter)
	}()

	select {
	case <-ctx.Done():
	case <-inputDone:
		// Input loop ended on its own (EOF/quit); begin the same shutdown
		// the second interrupt would trigger.
		cancel()
	}

	grace := time.Duration(derefDuration(opts.ShutdownGrace, 5*time.Second))
	logger.Warn("shutting down", slog.Duration("grace", grace))
	_ = sink.Flush(context.Background())

	select {
	case <-inputDone:
	case <-time.After(grace):
		logger.Error("graceful shutdown timed out, forcing exit")
		os.Exit(1)
	}
}

func buildAuditSink(ctx context.Context, opts config.Opts, logger *slog.Logger) audit.Sink {
	if opts.AuditLocation == nil {
		return audit.NopSink{}
	}
	loc := *opts.AuditLocation
	if len(loc) >= 5 && loc[:5] == "s3://" {
		sink, err := audit.NewS3Sink(ctx, loc)
		if err != nil {
			logger.Error("could not initialise S3 audit sink", slog.Any("error", err))
			return audit.NopSink{}
		}
		return sink
	}
	sink, err := audit.NewFileSink(loc)
	if err != nil {
		logger.Error("could not initialise file audit sink", slog.Any("error", err))
		return audit.NopSink{}
	}
	return sink
}

func derefDuration(d *config.Duration, fallback time.Duration) time.Duration {
	if d == nil {
		return fallback
	}
	return time.Duration(*d)
}
