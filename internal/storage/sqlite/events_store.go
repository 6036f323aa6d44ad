package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
)

type eventStore struct{ *Store }

const eventColumns = `id, title, description, date, location, status, poster_url, slack_message_ts, budget, max_attendees, created_at`

func scanEvent(row scanner) (events.Event, error) {
	var e events.Event
	var status string
	var date, createdAt int64
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&date,
		&e.Location,
		&status,
		&e.PosterURL,
		&e.SlackMessageTS,
		&e.Budget,
		&e.MaxAttendees,
		&createdAt,
	); err != nil {
		return events.Event{}, err
	}
	e.Status = events.Status(status)
	e.Date = fromMillis(date)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func (s *eventStore) List(ctx context.Context) ([]events.Event, error) {
	rows, err := s.conn().QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collect(rows, scanEvent)
}

func (s *eventStore) Get(ctx context.Context, id int64) (*events.Event, error) {
	e, err := scanEvent(s.conn().QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (s *eventStore) Create(ctx context.Context, e *events.Event) error {
	createdAt := now()
	id, err := insert(ctx, s.conn(), "insert event", `
INSERT INTO events (title, description, date, location, status, poster_url, slack_message_ts, budget, max_attendees, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, toMillis(e.Date), e.Location, string(e.Status), e.PosterURL, e.SlackMessageTS,
		e.Budget, e.MaxAttendees, toMillis(createdAt),
	)
	if err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = createdAt
	return nil
}

func (s *eventStore) Update(ctx context.Context, e *events.Event) error {
	return execOne(ctx, s.conn(), "update event", events.ErrNotFound, `
UPDATE events
   SET title = ?, description = ?, date = ?, location = ?, status = ?,
       poster_url = ?, slack_message_ts = ?, budget = ?, max_attendees = ?
 WHERE id = ?`,
		e.Title, e.Description, toMillis(e.Date), e.Location, string(e.Status), e.PosterURL, e.SlackMessageTS,
		e.Budget, e.MaxAttendees, e.ID,
	)
}

// Delete removes the event; expenses and notifications cascade.
func (s *eventStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.conn(), "delete event", events.ErrNotFound, `DELETE FROM events WHERE id = ?`, id)
}

func (s *eventStore) ExistsOn(ctx context.Context, title string, day time.Time) (bool, error) {
	start, end := dayBounds(day)
	var exists bool
	err := s.conn().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE title = ? AND date >= ? AND date < ?)`,
		title, toMillis(start), toMillis(end),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return exists, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
