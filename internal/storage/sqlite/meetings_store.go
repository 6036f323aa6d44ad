package sqlite

import (
	"context"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/meetings"
)

type meetingStore struct{ *Store }

const meetingColumns = `id, title, date, chairperson_id, secretary_id, loop_link, minutes, status, created_at`

func scanMeeting(row scanner) (meetings.Meeting, error) {
	var m meetings.Meeting
	var status string
	var date, createdAt int64
	if err := row.Scan(&m.ID, &m.Title, &date, &m.ChairpersonID, &m.SecretaryID, &m.LoopLink, &m.Minutes, &status, &createdAt); err != nil {
		return meetings.Meeting{}, err
	}
	m.Status = meetings.Status(status)
	m.Date = fromMillis(date)
	m.CreatedAt = fromMillis(createdAt)
	return m, nil
}

func (s *meetingStore) List(ctx context.Context) ([]meetings.Meeting, error) {
	rows, err := s.conn().QueryContext(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return collect(rows, scanMeeting)
}

func (s *meetingStore) Get(ctx context.Context, id int64) (*meetings.Meeting, error) {
	m, err := scanMeeting(s.conn().QueryRowContext(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, meetings.ErrNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return &m, nil
}

func (s *meetingStore) Create(ctx context.Context, m *meetings.Meeting) error {
	createdAt := now()
	id, err := insert(ctx, s.conn(), "insert meeting", `
INSERT INTO meetings (title, date, chairperson_id, secretary_id, loop_link, minutes, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, toMillis(m.Date), m.ChairpersonID, m.SecretaryID, m.LoopLink, m.Minutes, string(m.Status), toMillis(createdAt),
	)
	if err != nil {
		return err
	}
	m.ID = id
	m.CreatedAt = createdAt
	return nil
}

func (s *meetingStore) Update(ctx context.Context, m *meetings.Meeting) error {
	return execOne(ctx, s.conn(), "update meeting", meetings.ErrNotFound, `
UPDATE meetings
   SET title = ?, date = ?, chairperson_id = ?, secretary_id = ?, loop_link = ?, minutes = ?, status = ?
 WHERE id = ?`,
		m.Title, toMillis(m.Date), m.ChairpersonID, m.SecretaryID, m.LoopLink, m.Minutes, string(m.Status), m.ID,
	)
}

func (s *meetingStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.conn(), "delete meeting", meetings.ErrNotFound, `DELETE FROM meetings WHERE id = ?`, id)
}
