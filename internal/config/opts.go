// Package config holds the command-line options for alarmd, parsed with
// go-flags and grouped into per-concern option structs
// (QueueOpts/SchedulerOpts/InputOpts/...).
package config

import "time"

// QueueOpts configures the Request Queue.
type QueueOpts struct {
	QueueCapacity int `long:"queue-capacity" description:"Request Queue ring buffer size" default:"4"`
}

// SchedulerOpts configures Display Scheduler timing and cadence tracking.
type SchedulerOpts struct {
	Tick            *Duration `long:"tick" description:"Display Scheduler print-check period" default:"1s"`
	TrackerCapacity int       `long:"tracker-capacity" description:"samples kept per group for observed print-cadence reporting" default:"16"`
}

// InputOpts configures the console Input Loop's rate limiting.
type InputOpts struct {
	RateLimit           *time.Duration `long:"rate-limit" description:"prevent commands being accepted more often than this"`
	RateLimitBucketSize int            `long:"rate-limit-bucket-size" description:"allow a burst of up to this many commands before enforcing the rate limit" default:"1"`
}

// AuditOpts configures the outbound event journal.
type AuditOpts struct {
	AuditLocation *string  `long:"audit-location" description:"path or s3:// URI to append alarm lifecycle events to"`
	AuditFlush    *Duration `long:"audit-flush" description:"how often buffered audit events are flushed" default:"5s"`
}

// OutputOpts configures logging verbosity.
type OutputOpts struct {
	Debug bool `long:"debug" description:"show more detailed log messages"`
}

// StatsOpts configures the periodic stats reporter.
type StatsOpts struct {
	StatsPeriod *Duration `long:"stats-period" description:"how often a queue/scheduler summary line is logged" default:"10s"`
}

// ShutdownOpts configures the two-tier shutdown escalation.
type ShutdownOpts struct {
	ShutdownGrace *Duration `long:"shutdown-grace" description:"time allowed for graceful shutdown before the process force-exits" default:"5s"`
}

// Opts is the full command-line surface for the alarmd binary.
type Opts struct {
	QueueOpts     `group:"queue"`
	SchedulerOpts `group:"scheduler"`
	InputOpts     `group:"input"`
	AuditOpts     `group:"audit"`
	OutputOpts    `group:"output"`
	StatsOpts     `group:"stats"`
	ShutdownOpts  `group:"shutdown"`
}
