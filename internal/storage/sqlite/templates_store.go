package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/templates"
)

type templateStore struct{ *Store }

const templateColumns = `id, name, title, description, location, budget, max_attendees, is_recurring,
       recurring_type, recurring_day_of_week, recurring_day_of_month, created_at`

func scanTemplate(row scanner) (templates.Template, error) {
	var t templates.Template
	var recurringType sql.NullString
	var createdAt int64
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Title,
		&t.Description,
		&t.Location,
		&t.Budget,
		&t.MaxAttendees,
		&t.IsRecurring,
		&recurringType,
		&t.RecurringDayOfWeek,
		&t.RecurringDayOfMonth,
		&createdAt,
	); err != nil {
		return templates.Template{}, err
	}
	if recurringType.Valid {
		rt := templates.RecurrenceType(recurringType.String)
		t.RecurringType = &rt
	}
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func recurrenceArg(rt *templates.RecurrenceType) any {
	if rt == nil {
		return nil
	}
	return string(*rt)
}

func (s *templateStore) List(ctx context.Context) ([]templates.Template, error) {
	rows, err := s.conn().QueryContext(ctx, `SELECT `+templateColumns+` FROM event_templates ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return collect(rows, scanTemplate)
}

func (s *templateStore) Get(ctx context.Context, id int64) (*templates.Template, error) {
	t, err := scanTemplate(s.conn().QueryRowContext(ctx, `SELECT `+templateColumns+` FROM event_templates WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, templates.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (s *templateStore) Create(ctx context.Context, t *templates.Template) error {
	createdAt := now()
	id, err := insert(ctx, s.conn(), "insert template", `
INSERT INTO event_templates (name, title, description, location, budget, max_attendees, is_recurring,
                             recurring_type, recurring_day_of_week, recurring_day_of_month, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Title, t.Description, t.Location, t.Budget, t.MaxAttendees, t.IsRecurring,
		recurrenceArg(t.RecurringType), t.RecurringDayOfWeek, t.RecurringDayOfMonth, toMillis(createdAt),
	)
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = createdAt
	return nil
}

func (s *templateStore) Update(ctx context.Context, t *templates.Template) error {
	return execOne(ctx, s.conn(), "update template", templates.ErrNotFound, `
UPDATE event_templates
   SET name = ?, title = ?, description = ?, location = ?, budget = ?, max_attendees = ?,
       is_recurring = ?, recurring_type = ?, recurring_day_of_week = ?, recurring_day_of_month = ?
 WHERE id = ?`,
		t.Name, t.Title, t.Description, t.Location, t.Budget, t.MaxAttendees, t.IsRecurring,
		recurrenceArg(t.RecurringType), t.RecurringDayOfWeek, t.RecurringDayOfMonth, t.ID,
	)
}

func (s *templateStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.conn(), "delete template", templates.ErrNotFound, `DELETE FROM event_templates WHERE id = ?`, id)
}
