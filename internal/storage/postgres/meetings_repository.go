package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/jackc/pgx/v5"
)

var _ meetings.Repository = (*MeetingRepository)(nil)

type MeetingRepository struct {
	conn
}

const meetingColumns = `id, title, date, chairperson_id, secretary_id, loop_link, minutes, status, created_at`

func scanMeeting(row pgx.Row) (meetings.Meeting, error) {
	var m meetings.Meeting
	var status string
	if err := row.Scan(&m.ID, &m.Title, &m.Date, &m.ChairpersonID, &m.SecretaryID, &m.LoopLink, &m.Minutes, &status, &m.CreatedAt); err != nil {
		return meetings.Meeting{}, err
	}
	m.Status = meetings.Status(status)
	m.Date = m.Date.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

func (r *MeetingRepository) List(ctx context.Context) ([]meetings.Meeting, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (meetings.Meeting, error) {
		return scanMeeting(row)
	})
}

func (r *MeetingRepository) Get(ctx context.Context, id int64) (*meetings.Meeting, error) {
	m, err := scanMeeting(r.queryer().QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, meetings.ErrNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return &m, nil
}

func (r *MeetingRepository) Create(ctx context.Context, m *meetings.Meeting) error {
	err := r.queryer().QueryRow(ctx, `
INSERT INTO meetings (title, date, chairperson_id, secretary_id, loop_link, minutes, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`,
		m.Title, m.Date, m.ChairpersonID, m.SecretaryID, m.LoopLink, m.Minutes, string(m.Status),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return nil
}

func (r *MeetingRepository) Update(ctx context.Context, m *meetings.Meeting) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE meetings
   SET title = $2, date = $3, chairperson_id = $4, secretary_id = $5, loop_link = $6, minutes = $7, status = $8
 WHERE id = $1`,
		m.ID, m.Title, m.Date, m.ChairpersonID, m.SecretaryID, m.LoopLink, m.Minutes, string(m.Status),
	)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meetings.ErrNotFound
	}
	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meetings.ErrNotFound
	}
	return nil
}
