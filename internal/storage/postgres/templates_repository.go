package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/jackc/pgx/v5"
)

var _ templates.Repository = (*TemplateRepository)(nil)

type TemplateRepository struct {
	conn
}

const templateColumns = `id, name, title, description, location, budget, max_attendees, is_recurring,
       recurring_type, recurring_day_of_week, recurring_day_of_month, created_at`

func scanTemplate(row pgx.Row) (templates.Template, error) {
	var t templates.Template
	var recurringType *string
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
		&t.CreatedAt,
	); err != nil {
		return templates.Template{}, err
	}
	if recurringType != nil {
		rt := templates.RecurrenceType(*recurringType)
		t.RecurringType = &rt
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func recurrenceArg(rt *templates.RecurrenceType) *string {
	if rt == nil {
		return nil
	}
	v := string(*rt)
	return &v
}

func (r *TemplateRepository) List(ctx context.Context) ([]templates.Template, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+templateColumns+` FROM event_templates ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (templates.Template, error) {
		return scanTemplate(row)
	})
}

func (r *TemplateRepository) Get(ctx context.Context, id int64) (*templates.Template, error) {
	t, err := scanTemplate(r.queryer().QueryRow(ctx, `SELECT `+templateColumns+` FROM event_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, templates.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *templates.Template) error {
	err := r.queryer().QueryRow(ctx, `
INSERT INTO event_templates (name, title, description, location, budget, max_attendees, is_recurring,
                             recurring_type, recurring_day_of_week, recurring_day_of_month)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at`,
		t.Name, t.Title, t.Description, t.Location, t.Budget, t.MaxAttendees, t.IsRecurring,
		recurrenceArg(t.RecurringType), t.RecurringDayOfWeek, t.RecurringDayOfMonth,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *templates.Template) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE event_templates
   SET name = $2, title = $3, description = $4, location = $5, budget = $6, max_attendees = $7,
       is_recurring = $8, recurring_type = $9, recurring_day_of_week = $10, recurring_day_of_month = $11
 WHERE id = $1`,
		t.ID, t.Name, t.Title, t.Description, t.Location, t.Budget, t.MaxAttendees, t.IsRecurring,
		recurrenceArg(t.RecurringType), t.RecurringDayOfWeek, t.RecurringDayOfMonth,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return templates.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM event_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return templates.ErrNotFound
	}
	return nil
}
