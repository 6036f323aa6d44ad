package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

type SMSDispatchArgs struct {
	EventID int64 `json:"event_id"`
}

func (SMSDispatchArgs) Kind() string { return JobKindSMSDispatch }

type RecurringEventsArgs struct {
	HorizonDays int `json:"horizon_days"`
}

func (RecurringEventsArgs) Kind() string { return JobKindRecurringEvents }

// Dispatcher sends an event's pending notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventID int64) (notifications.DispatchResult, error)
}

// Scheduler creates upcoming occurrences of recurring templates.
type Scheduler interface {
	ScheduleUpcoming(ctx context.Context, horizon time.Duration, checker templates.EventChecker) ([]events.Event, error)
}

type SMSDispatchWorker struct {
	river.WorkerDefaults[SMSDispatchArgs]
	Dispatcher Dispatcher
	Logger     zerolog.Logger
}

func (SMSDispatchWorker) Kind() string { return JobKindSMSDispatch }

func (w SMSDispatchWorker) Timeout(*river.Job[SMSDispatchArgs]) time.Duration { return 5 * time.Minute }

// Work dispatches pending notifications. Rows already marked sent or failed
// are never retried, so re-running the job after a partial failure only
// touches what is still pending.
func (w SMSDispatchWorker) Work(ctx context.Context, job *river.Job[SMSDispatchArgs]) error {
	if w.Dispatcher == nil {
		return fmt.Errorf("sms dispatcher not configured")
	}
	if job == nil {
		return fmt.Errorf("sms dispatch job missing")
	}

	result, err := w.Dispatcher.Dispatch(ctx, job.Args.EventID)
	if errors.Is(err, events.ErrNotFound) {
		return river.JobCancel(err)
	}
	if err != nil {
		return fmt.Errorf("dispatch event %d: %w", job.Args.EventID, err)
	}
	w.Logger.Info().
		Int64("job_id", job.ID).
		Int64("event_id", job.Args.EventID).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("sms dispatch job finished")
	return nil
}

type RecurringEventsWorker struct {
	river.WorkerDefaults[RecurringEventsArgs]
	Scheduler Scheduler
	Checker   templates.EventChecker
	Logger    zerolog.Logger
}

func (RecurringEventsWorker) Kind() string { return JobKindRecurringEvents }

func (w RecurringEventsWorker) Work(ctx context.Context, job *river.Job[RecurringEventsArgs]) error {
	if w.Scheduler == nil || w.Checker == nil {
		return fmt.Errorf("recurring event scheduler not configured")
	}
	if job == nil {
		return fmt.Errorf("recurring events job missing")
	}
	if job.Args.HorizonDays <= 0 {
		return nil
	}

	horizon := time.Duration(job.Args.HorizonDays) * 24 * time.Hour
	created, err := w.Scheduler.ScheduleUpcoming(ctx, horizon, w.Checker)
	metrics.RecurringEventsCreated.Add(float64(len(created)))
	for _, e := range created {
		w.Logger.Info().Int64("event_id", e.ID).Str("title", e.Title).Time("date", e.Date).Msg("recurring event scheduled")
	}
	if err != nil {
		return fmt.Errorf("schedule recurring events: %w", err)
	}
	return nil
}

// WorkerDeps are the services the workers call into.
type WorkerDeps struct {
	Dispatcher Dispatcher
	Scheduler  Scheduler
	Checker    templates.EventChecker
	Logger     zerolog.Logger
}

func NewWorkers(deps WorkerDeps) *river.Workers {
	logger := deps.Logger.With().Str("component", "jobs").Logger()
	workers := river.NewWorkers()
	river.AddWorker[SMSDispatchArgs](workers, SMSDispatchWorker{Dispatcher: deps.Dispatcher, Logger: logger})
	river.AddWorker[RecurringEventsArgs](workers, RecurringEventsWorker{
		Scheduler: deps.Scheduler,
		Checker:   deps.Checker,
		Logger:    logger,
	})
	return workers
}
