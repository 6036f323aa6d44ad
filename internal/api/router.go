// Package api assembles the HTTP surface: routes, middleware and the
// service wiring behind them.
package api

import (
	"net/http"

	"github.com/Togather-Foundation/glee/internal/api/handlers"
	"github.com/Togather-Foundation/glee/internal/api/middleware"
	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Services are the domain services the routes dispatch to.
type Services struct {
	Events        *events.Service
	Meetings      *meetings.Service
	Tasks         *tasks.Service
	Staff         *staff.Service
	Expenses      *expenses.Service
	Templates     *templates.Service
	Notifications *notifications.Service
}

// Dependencies carries everything NewRouter needs beyond configuration.
// Pool and Enqueuer are nil unless the postgres backend is in use.
type Dependencies struct {
	Services Services
	Store    handlers.Pinger
	Pool     *pgxpool.Pool
	Enqueuer handlers.SMSEnqueuer
	Build    BuildInfo
}

func NewRouter(cfg config.Config, logger zerolog.Logger, deps Dependencies) http.Handler {
	svc := deps.Services
	env := cfg.Environment

	eventsHandler := handlers.NewEventsHandler(svc.Events, svc.Expenses, env)
	meetingsHandler := handlers.NewMeetingsHandler(svc.Meetings, env)
	tasksHandler := handlers.NewTasksHandler(svc.Tasks, env)
	staffHandler := handlers.NewStaffHandler(svc.Staff, env)
	expensesHandler := handlers.NewExpensesHandler(svc.Expenses, env)
	templatesHandler := handlers.NewTemplatesHandler(svc.Templates, env)
	smsHandler := handlers.NewSMSHandler(svc.Notifications, svc.Events, deps.Enqueuer, env)
	health := handlers.NewHealthChecker(deps.Store, deps.Pool, cfg.Jobs.Enabled, cfg.Storage.Backend, deps.Build.Version, deps.Build.GitCommit)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /readyz", health.Ready())
	mux.Handle("GET /health", health.Health())
	mux.Handle("GET /version", VersionHandler(deps.Build))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{Registry: metrics.Registry}))
	mux.Handle("GET /api/openapi.json", OpenAPIHandler(cfg.Server.BaseURL))

	mux.HandleFunc("GET /api/events", eventsHandler.List)
	mux.HandleFunc("POST /api/events", eventsHandler.Create)
	mux.HandleFunc("GET /api/events/{id}", eventsHandler.Get)
	mux.HandleFunc("PATCH /api/events/{id}", eventsHandler.Update)
	mux.HandleFunc("DELETE /api/events/{id}", eventsHandler.Delete)
	mux.HandleFunc("GET /api/events/{id}/budget", eventsHandler.Budget)

	mux.HandleFunc("GET /api/events/{id}/sms", smsHandler.List)
	mux.HandleFunc("POST /api/events/{id}/sms", smsHandler.Queue)
	mux.HandleFunc("POST /api/events/{id}/sms/send", smsHandler.Send)

	mux.HandleFunc("GET /api/events/{id}/expenses", expensesHandler.ListByEvent)
	mux.HandleFunc("POST /api/events/{id}/expenses", expensesHandler.Create)
	mux.HandleFunc("PATCH /api/expenses/{id}", expensesHandler.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", expensesHandler.Delete)

	mux.HandleFunc("GET /api/meetings", meetingsHandler.List)
	mux.HandleFunc("POST /api/meetings", meetingsHandler.Create)
	mux.HandleFunc("GET /api/meetings/{id}", meetingsHandler.Get)
	mux.HandleFunc("PATCH /api/meetings/{id}", meetingsHandler.Update)
	mux.HandleFunc("DELETE /api/meetings/{id}", meetingsHandler.Delete)

	mux.HandleFunc("GET /api/tasks", tasksHandler.List)
	mux.HandleFunc("POST /api/tasks", tasksHandler.Create)
	mux.HandleFunc("PATCH /api/tasks/{id}", tasksHandler.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", tasksHandler.Delete)

	mux.HandleFunc("GET /api/staff", staffHandler.List)
	mux.HandleFunc("POST /api/staff", staffHandler.Create)
	mux.HandleFunc("PATCH /api/staff/{id}", staffHandler.Update)
	mux.HandleFunc("DELETE /api/staff/{id}", staffHandler.Delete)

	mux.HandleFunc("GET /api/templates", templatesHandler.List)
	mux.HandleFunc("POST /api/templates", templatesHandler.Create)
	mux.HandleFunc("GET /api/templates/{id}", templatesHandler.Get)
	mux.HandleFunc("PATCH /api/templates/{id}", templatesHandler.Update)
	mux.HandleFunc("DELETE /api/templates/{id}", templatesHandler.Delete)
	mux.HandleFunc("POST /api/templates/{id}/create-event", templatesHandler.CreateEvent)

	var handler http.Handler = mux
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.NewRateLimiter(cfg.RateLimit).Middleware(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.SecurityHeaders(cfg.IsProduction())(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.Tracing(handler)
	return handler
}
