package firestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/tasks"
)

type taskDoc struct {
	ID         int64      `firestore:"id"`
	Title      string     `firestore:"title"`
	Priority   string     `firestore:"priority"`
	Status     string     `firestore:"status"`
	AssigneeID *int64     `firestore:"assigneeId"`
	EventID    *int64     `firestore:"eventId"`
	MeetingID  *int64     `firestore:"meetingId"`
	DueDate    *time.Time `firestore:"dueDate"`
}

func toTaskDoc(t *tasks.Task) taskDoc {
	return taskDoc{
		ID:         t.ID,
		Title:      t.Title,
		Priority:   string(t.Priority),
		Status:     string(t.Status),
		AssigneeID: t.AssigneeID,
		EventID:    t.EventID,
		MeetingID:  t.MeetingID,
		DueDate:    utc(t.DueDate),
	}
}

func (d taskDoc) task() tasks.Task {
	return tasks.Task{
		ID:         d.ID,
		Title:      d.Title,
		Priority:   tasks.Priority(d.Priority),
		Status:     tasks.Status(d.Status),
		AssigneeID: d.AssigneeID,
		EventID:    d.EventID,
		MeetingID:  d.MeetingID,
		DueDate:    utc(d.DueDate),
	}
}

type taskStore struct{ *Store }

// List filters in memory; the collection is small and the filter combines
// optional fields that would each need a composite index.
func (s *taskStore) List(ctx context.Context, filter tasks.Filter) ([]tasks.Task, error) {
	all, err := collect(ctx, s.col(colTasks).Query, taskDoc.task)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]tasks.Task, 0, len(all))
	for _, t := range all {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b tasks.Task) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *taskStore) Get(ctx context.Context, id int64) (*tasks.Task, error) {
	var d taskDoc
	if err := s.get(ctx, colTasks, id, &d, tasks.ErrNotFound); err != nil {
		return nil, err
	}
	t := d.task()
	return &t, nil
}

func (s *taskStore) Create(ctx context.Context, t *tasks.Task) error {
	id, err := s.create(ctx, colTasks, func(id int64) any {
		d := toTaskDoc(t)
		d.ID = id
		return d
	})
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *taskStore) Update(ctx context.Context, t *tasks.Task) error {
	return s.replace(ctx, colTasks, t.ID, toTaskDoc(t), tasks.ErrNotFound)
}

func (s *taskStore) Delete(ctx context.Context, id int64) error {
	return s.remove(ctx, colTasks, id, tasks.ErrNotFound)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
