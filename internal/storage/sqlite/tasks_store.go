package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/tasks"
)

type taskStore struct{ *Store }

const taskColumns = `id, title, priority, status, assignee_id, event_id, meeting_id, due_date`

func scanTask(row scanner) (tasks.Task, error) {
	var t tasks.Task
	var priority, status string
	var due sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &priority, &status, &t.AssigneeID, &t.EventID, &t.MeetingID, &due); err != nil {
		return tasks.Task{}, err
	}
	t.Priority = tasks.Priority(priority)
	t.Status = tasks.Status(status)
	t.DueDate = fromNullMillis(due)
	return t, nil
}

func (s *taskStore) List(ctx context.Context, filter tasks.Filter) ([]tasks.Task, error) {
	rows, err := s.conn().QueryContext(ctx, `
SELECT `+taskColumns+`
  FROM tasks
 WHERE (?1 = 0 OR event_id = ?1)
   AND (?2 = 0 OR meeting_id = ?2)
   AND (?3 = '' OR status = ?3)
 ORDER BY id ASC`,
		filter.EventID, filter.MeetingID, string(filter.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collect(rows, scanTask)
}

func (s *taskStore) Get(ctx context.Context, id int64) (*tasks.Task, error) {
	t, err := scanTask(s.conn().QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, tasks.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *taskStore) Create(ctx context.Context, t *tasks.Task) error {
	id, err := insert(ctx, s.conn(), "insert task", `
INSERT INTO tasks (title, priority, status, assignee_id, event_id, meeting_id, due_date)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Title, string(t.Priority), string(t.Status), t.AssigneeID, t.EventID, t.MeetingID, nullMillis(t.DueDate),
	)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *taskStore) Update(ctx context.Context, t *tasks.Task) error {
	return execOne(ctx, s.conn(), "update task", tasks.ErrNotFound, `
UPDATE tasks
   SET title = ?, priority = ?, status = ?, assignee_id = ?, event_id = ?, meeting_id = ?, due_date = ?
 WHERE id = ?`,
		t.Title, string(t.Priority), string(t.Status), t.AssigneeID, t.EventID, t.MeetingID, nullMillis(t.DueDate), t.ID,
	)
}

func (s *taskStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.conn(), "delete task", tasks.ErrNotFound, `DELETE FROM tasks WHERE id = ?`, id)
}
