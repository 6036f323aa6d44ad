// Package jobs runs background work on River: SMS dispatch and the
// recurring event scheduler. River needs Postgres, so jobs only run with the
// postgres storage backend.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

const (
	JobKindSMSDispatch     = "sms_dispatch"
	JobKindRecurringEvents = "recurring_events"
)

const (
	SMSDispatchMaxAttempts     = 3
	RecurringEventsMaxAttempts = 2
	defaultMaxAttempts         = 5
)

const (
	QueueSMS       = "sms"
	recurringEvery = time.Hour
)

// RetryConfig controls per-kind retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryPolicy implements River's ClientRetryPolicy with per-kind exponential backoff.
type RetryPolicy struct {
	Default RetryConfig
	ByKind  map[string]RetryConfig
}

// NewRetryPolicy returns the retry policy. smsMaxAttempts overrides the SMS
// dispatch attempt budget when positive.
func NewRetryPolicy(smsMaxAttempts int) *RetryPolicy {
	if smsMaxAttempts <= 0 {
		smsMaxAttempts = SMSDispatchMaxAttempts
	}
	return &RetryPolicy{
		Default: RetryConfig{
			MaxAttempts: defaultMaxAttempts,
			BaseDelay:   30 * time.Second,
			MaxDelay:    30 * time.Minute,
		},
		ByKind: map[string]RetryConfig{
			JobKindSMSDispatch: {
				MaxAttempts: smsMaxAttempts,
				BaseDelay:   15 * time.Second,
				MaxDelay:    5 * time.Minute,
			},
			JobKindRecurringEvents: {
				MaxAttempts: RecurringEventsMaxAttempts,
				BaseDelay:   time.Minute,
				MaxDelay:    10 * time.Minute,
			},
		},
	}
}

// NextRetry determines the next retry time for a failed job.
func (p *RetryPolicy) NextRetry(job *rivertype.JobRow) time.Time {
	cfg := p.configFor(job.Kind)
	if cfg.BaseDelay == 0 {
		return time.Now()
	}

	attempt := job.Attempt
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(float64(cfg.BaseDelay) * math.Pow(2, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	if job.AttemptedAt != nil {
		return job.AttemptedAt.Add(delay)
	}
	return time.Now().Add(delay)
}

// InsertOpts returns insert options for a job kind.
func (p *RetryPolicy) InsertOpts(kind string) river.InsertOpts {
	opts := river.InsertOpts{MaxAttempts: p.configFor(kind).MaxAttempts}
	if kind == JobKindSMSDispatch {
		opts.Queue = QueueSMS
	}
	return opts
}

func (p *RetryPolicy) configFor(kind string) RetryConfig {
	if p == nil {
		return RetryConfig{MaxAttempts: defaultMaxAttempts, BaseDelay: time.Minute, MaxDelay: time.Hour}
	}
	if cfg, ok := p.ByKind[kind]; ok {
		return cfg
	}
	return p.Default
}

// NewClientConfig builds a River client configuration.
func NewClientConfig(workers *river.Workers, policy *RetryPolicy, slogger *slog.Logger, logger zerolog.Logger, hooks []rivertype.Hook, periodicJobs []*river.PeriodicJob) *river.Config {
	return &river.Config{
		Workers:      workers,
		RetryPolicy:  policy,
		MaxAttempts:  policy.Default.MaxAttempts,
		PeriodicJobs: periodicJobs,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 2},
			QueueSMS:           {MaxWorkers: 1},
		},
		Hooks:        hooks,
		Logger:       slogger,
		ErrorHandler: NewErrorHandler(logger),
	}
}

// NewClient creates a River client using pgx v5.
func NewClient(pool *pgxpool.Pool, cfg *river.Config) (*river.Client[pgx.Tx], error) {
	return river.NewClient(riverpgxv5.New(pool), cfg)
}

// NewPeriodicJobs schedules the recurring event scheduler. It returns nothing
// when the scheduling horizon is disabled.
func NewPeriodicJobs(horizonDays int) []*river.PeriodicJob {
	if horizonDays <= 0 {
		return nil
	}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(recurringEvery),
			func() (river.JobArgs, *river.InsertOpts) {
				return RecurringEventsArgs{HorizonDays: horizonDays}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

// Queue enqueues jobs on a River client.
type Queue struct {
	client *river.Client[pgx.Tx]
	policy *RetryPolicy
}

func NewQueue(client *river.Client[pgx.Tx], policy *RetryPolicy) *Queue {
	return &Queue{client: client, policy: policy}
}

// EnqueueSMSDispatch schedules delivery of an event's pending notifications
// and returns the job id. A dispatch already queued for the event is reused.
func (q *Queue) EnqueueSMSDispatch(ctx context.Context, eventID int64) (int64, error) {
	opts := q.policy.InsertOpts(JobKindSMSDispatch)
	opts.UniqueOpts = river.UniqueOpts{
		ByArgs:  true,
		ByState: []rivertype.JobState{rivertype.JobStateAvailable, rivertype.JobStateScheduled, rivertype.JobStateRetryable},
	}
	res, err := q.client.Insert(ctx, SMSDispatchArgs{EventID: eventID}, &opts)
	if err != nil {
		return 0, fmt.Errorf("enqueue sms dispatch for event %d: %w", eventID, err)
	}
	return res.Job.ID, nil
}
