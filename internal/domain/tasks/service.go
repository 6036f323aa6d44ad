package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/sanitize"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "tasks").Logger()}
}

// List returns tasks matching filter, hottest first, then by due date.
func (s *Service) List(ctx context.Context, filter Filter) ([]Task, error) {
	if filter.Status != "" {
		if err := validation.OneOf("status", filter.Status, Statuses...); err != nil {
			return nil, err
		}
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
			return pa < pb
		}
		switch {
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		}
		return a.ID < b.ID
	})
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Task, error) {
	task := &Task{
		Title:      sanitize.Text(strings.TrimSpace(params.Title)),
		Priority:   params.Priority,
		Status:     params.Status,
		AssigneeID: positiveID(params.AssigneeID),
		EventID:    positiveID(params.EventID),
		MeetingID:  positiveID(params.MeetingID),
		DueDate:    dueDate(params.DueDate),
	}
	if task.Status == "" {
		task.Status = StatusTodo
	}
	if err := validate(task); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Debug().Int64("task_id", task.ID).Msg("task created")
	return task, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		task.Title = sanitize.Text(strings.TrimSpace(*params.Title))
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.AssigneeID != nil {
		task.AssigneeID = positiveID(params.AssigneeID)
	}
	if params.EventID != nil {
		task.EventID = positiveID(params.EventID)
	}
	if params.MeetingID != nil {
		task.MeetingID = positiveID(params.MeetingID)
	}
	if params.DueDate != nil {
		task.DueDate = dueDate(params.DueDate)
	}
	if err := validate(task); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(t *Task) error {
	if err := validation.Required("title", t.Title); err != nil {
		return err
	}
	if err := validation.OneOf("priority", t.Priority, Priorities...); err != nil {
		return err
	}
	return validation.OneOf("status", t.Status, Statuses...)
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHot:
		return 0
	case PriorityWarm:
		return 1
	default:
		return 2
	}
}

func positiveID(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}

func dueDate(d *time.Time) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	v := d.UTC()
	return &v
}
