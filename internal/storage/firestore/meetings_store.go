package firestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/meetings"
)

type meetingDoc struct {
	ID            int64     `firestore:"id"`
	Title         string    `firestore:"title"`
	Date          time.Time `firestore:"date"`
	ChairpersonID *int64    `firestore:"chairpersonId"`
	SecretaryID   *int64    `firestore:"secretaryId"`
	LoopLink      *string   `firestore:"loopLink"`
	Minutes       *string   `firestore:"minutes"`
	Status        string    `firestore:"status"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

func toMeetingDoc(m *meetings.Meeting) meetingDoc {
	return meetingDoc{
		ID:            m.ID,
		Title:         m.Title,
		Date:          m.Date.UTC(),
		ChairpersonID: m.ChairpersonID,
		SecretaryID:   m.SecretaryID,
		LoopLink:      m.LoopLink,
		Minutes:       m.Minutes,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func (d meetingDoc) meeting() meetings.Meeting {
	return meetings.Meeting{
		ID:            d.ID,
		Title:         d.Title,
		Date:          d.Date.UTC(),
		ChairpersonID: d.ChairpersonID,
		SecretaryID:   d.SecretaryID,
		LoopLink:      d.LoopLink,
		Minutes:       d.Minutes,
		Status:        meetings.Status(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

type meetingStore struct{ *Store }

func (s *meetingStore) List(ctx context.Context) ([]meetings.Meeting, error) {
	items, err := collect(ctx, s.col(colMeetings).Query, meetingDoc.meeting)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	slices.SortFunc(items, func(a, b meetings.Meeting) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return items, nil
}

func (s *meetingStore) Get(ctx context.Context, id int64) (*meetings.Meeting, error) {
	var d meetingDoc
	if err := s.get(ctx, colMeetings, id, &d, meetings.ErrNotFound); err != nil {
		return nil, err
	}
	m := d.meeting()
	return &m, nil
}

func (s *meetingStore) Create(ctx context.Context, m *meetings.Meeting) error {
	m.CreatedAt = time.Now().UTC()
	id, err := s.create(ctx, colMeetings, func(id int64) any {
		d := toMeetingDoc(m)
		d.ID = id
		return d
	})
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (s *meetingStore) Update(ctx context.Context, m *meetings.Meeting) error {
	var current meetingDoc
	if err := s.get(ctx, colMeetings, m.ID, &current, meetings.ErrNotFound); err != nil {
		return err
	}
	d := toMeetingDoc(m)
	d.CreatedAt = current.CreatedAt
	return s.replace(ctx, colMeetings, m.ID, d, meetings.ErrNotFound)
}

func (s *meetingStore) Delete(ctx context.Context, id int64) error {
	return s.remove(ctx, colMeetings, id, meetings.ErrNotFound)
}
