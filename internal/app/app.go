// Package app builds the running portal from configuration: storage, the SMS
// sender, domain services, background jobs and the HTTP handler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Togather-Foundation/glee/internal/api"
	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/jobs"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/Togather-Foundation/glee/internal/seed"
	"github.com/Togather-Foundation/glee/internal/sms"
	"github.com/Togather-Foundation/glee/internal/storage"
	"github.com/Togather-Foundation/glee/internal/storage/backend"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

type App struct {
	Config   config.Config
	Backend  *backend.Backend
	Services api.Services
	Handler  http.Handler

	// Jobs and Queue are nil unless the postgres backend is in use and jobs
	// are enabled.
	Jobs  *river.Client[pgx.Tx]
	Queue *jobs.Queue

	logger zerolog.Logger
}

// New opens storage and assembles the application. The caller owns the
// returned App and must Close it.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger, slogger *slog.Logger, build api.BuildInfo) (*App, error) {
	be, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &App{
		Config:   cfg,
		Backend:  be,
		Services: NewServices(be.Repo, NewSender(cfg.SMS, logger), cfg, logger),
		logger:   logger,
	}

	deps := api.Dependencies{
		Services: a.Services,
		Store:    be.Repo,
		Pool:     be.Pool,
		Build:    build,
	}

	if be.Pool != nil && cfg.Jobs.Enabled {
		if err := a.initJobs(slogger); err != nil {
			_ = be.Close()
			return nil, err
		}
		deps.Enqueuer = a.Queue
	} else if cfg.Jobs.Enabled {
		logger.Info().Str("backend", be.Name).Msg("background jobs need the postgres backend; async SMS dispatch and recurring scheduling disabled")
	}

	a.Handler = api.NewRouter(cfg, logger, deps)
	return a, nil
}

func (a *App) initJobs(slogger *slog.Logger) error {
	policy := jobs.NewRetryPolicy(a.Config.Jobs.SMSDispatchMaxAttempt)
	workers := jobs.NewWorkers(jobs.WorkerDeps{
		Dispatcher: a.Services.Notifications,
		Scheduler:  a.Services.Templates,
		Checker:    a.Services.Events,
		Logger:     a.logger,
	})
	if slogger == nil {
		slogger = config.NewSlogLogger(a.Config.Logging)
	}
	clientCfg := jobs.NewClientConfig(
		workers,
		policy,
		slogger,
		a.logger,
		[]rivertype.Hook{metrics.NewRiverMetricsHook()},
		jobs.NewPeriodicJobs(a.Config.Jobs.RecurringHorizonDays),
	)
	client, err := jobs.NewClient(a.Backend.Pool, clientCfg)
	if err != nil {
		return fmt.Errorf("create river client: %w", err)
	}
	a.Jobs = client
	a.Queue = jobs.NewQueue(client, policy)
	return nil
}

// NewSender returns the Twilio sender when SMS is enabled and a sender that
// only logs otherwise.
func NewSender(cfg config.SMSConfig, logger zerolog.Logger) sms.Sender {
	if cfg.Enabled {
		return sms.NewTwilioSender(cfg, logger)
	}
	logger.Warn().Msg("SMS disabled; messages will be logged instead of sent")
	return sms.NewLogSender(logger)
}

func NewServices(repo storage.Repository, sender sms.Sender, cfg config.Config, logger zerolog.Logger) api.Services {
	eventService := events.NewService(repo.Events(), logger)
	staffService := staff.NewService(repo.Staff(), logger)
	return api.Services{
		Events:        eventService,
		Meetings:      meetings.NewService(repo.Meetings(), logger),
		Tasks:         tasks.NewService(repo.Tasks(), logger),
		Staff:         staffService,
		Expenses:      expenses.NewService(repo.Expenses(), eventService, logger),
		Templates:     templates.NewService(repo.Templates(), eventService, cfg.Templates.DefaultHour, logger),
		Notifications: notifications.NewService(repo.Notifications(), eventService, staffService, sender, cfg.SMS.Concurrency, logger),
	}
}

// Seed applies doc to empty collections.
func (a *App) Seed(ctx context.Context, doc seed.Document) (seed.Result, error) {
	return seed.Apply(ctx, seed.Services{
		Events:   a.Services.Events,
		Meetings: a.Services.Meetings,
		Staff:    a.Services.Staff,
	}, doc, time.Now(), a.logger)
}

// StartJobs starts the River workers. It is a no-op without a job client.
func (a *App) StartJobs(ctx context.Context) error {
	if a.Jobs == nil {
		return nil
	}
	if err := a.Jobs.Start(ctx); err != nil {
		return fmt.Errorf("river workers failed to start: %w", err)
	}
	a.logger.Info().Msg("river background job workers started")
	return nil
}

// Close stops the job workers and releases storage.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Jobs != nil {
		if err := a.Jobs.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop river workers: %w", err))
		}
	}
	if err := a.Backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
