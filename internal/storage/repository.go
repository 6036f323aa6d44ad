// Package storage defines the persistence boundary shared by every backend.
package storage

import (
	"context"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
)

// Repository groups data access by domain.
type Repository interface {
	Events() events.Repository
	Meetings() meetings.Repository
	Tasks() tasks.Repository
	Staff() staff.Repository
	Notifications() notifications.Repository
	Expenses() expenses.Repository
	Templates() templates.Repository

	// WithTx runs fn against a repository bound to one transaction. Backends
	// without multi-statement transactions run fn directly.
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
