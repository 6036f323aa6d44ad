package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/jackc/pgx/v5"
)

var _ tasks.Repository = (*TaskRepository)(nil)

type TaskRepository struct {
	conn
}

const taskColumns = `id, title, priority, status, assignee_id, event_id, meeting_id, due_date`

func scanTask(row pgx.Row) (tasks.Task, error) {
	var t tasks.Task
	var priority, status string
	if err := row.Scan(&t.ID, &t.Title, &priority, &status, &t.AssigneeID, &t.EventID, &t.MeetingID, &t.DueDate); err != nil {
		return tasks.Task{}, err
	}
	t.Priority = tasks.Priority(priority)
	t.Status = tasks.Status(status)
	t.DueDate = utc(t.DueDate)
	return t, nil
}

func (r *TaskRepository) List(ctx context.Context, filter tasks.Filter) ([]tasks.Task, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+taskColumns+`
  FROM tasks
 WHERE ($1::bigint = 0 OR event_id = $1)
   AND ($2::bigint = 0 OR meeting_id = $2)
   AND ($3 = '' OR status = $3)
 ORDER BY id ASC`,
		filter.EventID, filter.MeetingID, string(filter.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (tasks.Task, error) {
		return scanTask(row)
	})
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*tasks.Task, error) {
	t, err := scanTask(r.queryer().QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tasks.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *tasks.Task) error {
	err := r.queryer().QueryRow(ctx, `
INSERT INTO tasks (title, priority, status, assignee_id, event_id, meeting_id, due_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		t.Title, string(t.Priority), string(t.Status), t.AssigneeID, t.EventID, t.MeetingID, t.DueDate,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *tasks.Task) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE tasks
   SET title = $2, priority = $3, status = $4, assignee_id = $5, event_id = $6, meeting_id = $7, due_date = $8
 WHERE id = $1`,
		t.ID, t.Title, string(t.Priority), string(t.Status), t.AssigneeID, t.EventID, t.MeetingID, t.DueDate,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrNotFound
	}
	return nil
}
