package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/jackc/pgx/v5"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	conn
}

const eventColumns = `id, title, description, date, location, status, poster_url, slack_message_ts, budget, max_attendees, created_at`

func scanEvent(row pgx.Row) (events.Event, error) {
	var e events.Event
	var status string
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Location,
		&status,
		&e.PosterURL,
		&e.SlackMessageTS,
		&e.Budget,
		&e.MaxAttendees,
		&e.CreatedAt,
	); err != nil {
		return events.Event{}, err
	}
	e.Status = events.Status(status)
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (events.Event, error) {
		return scanEvent(row)
	})
}

func (r *EventRepository) Get(ctx context.Context, id int64) (*events.Event, error) {
	e, err := scanEvent(r.queryer().QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *events.Event) error {
	err := r.queryer().QueryRow(ctx, `
INSERT INTO events (title, description, date, location, status, poster_url, slack_message_ts, budget, max_attendees)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`,
		e.Title, e.Description, e.Date, e.Location, string(e.Status), e.PosterURL, e.SlackMessageTS, e.Budget, e.MaxAttendees,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return nil
}

func (r *EventRepository) Update(ctx context.Context, e *events.Event) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events
   SET title = $2, description = $3, date = $4, location = $5, status = $6,
       poster_url = $7, slack_message_ts = $8, budget = $9, max_attendees = $10
 WHERE id = $1`,
		e.ID, e.Title, e.Description, e.Date, e.Location, string(e.Status), e.PosterURL, e.SlackMessageTS, e.Budget, e.MaxAttendees,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// Delete removes the event; expenses and notifications cascade.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) ExistsOn(ctx context.Context, title string, day time.Time) (bool, error) {
	start, end := dayBounds(day)
	var exists bool
	err := r.queryer().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE title = $1 AND date >= $2 AND date < $3)`,
		title, start, end,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return exists, nil
}
