package firestore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Togather-Foundation/glee/internal/domain/events"
	"google.golang.org/api/iterator"
)

type eventDoc struct {
	ID             int64     `firestore:"id"`
	Title          string    `firestore:"title"`
	Description    string    `firestore:"description"`
	Date           time.Time `firestore:"date"`
	Location       *string   `firestore:"location"`
	Status         string    `firestore:"status"`
	PosterURL      *string   `firestore:"posterUrl"`
	SlackMessageTS *string   `firestore:"slackMessageTs"`
	Budget         int       `firestore:"budget"`
	MaxAttendees   *int      `firestore:"maxAttendees"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

func toEventDoc(e *events.Event) eventDoc {
	return eventDoc{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date.UTC(),
		Location:       e.Location,
		Status:         string(e.Status),
		PosterURL:      e.PosterURL,
		SlackMessageTS: e.SlackMessageTS,
		Budget:         e.Budget,
		MaxAttendees:   e.MaxAttendees,
		CreatedAt:      e.CreatedAt.UTC(),
	}
}

func (d eventDoc) event() events.Event {
	return events.Event{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Date:           d.Date.UTC(),
		Location:       d.Location,
		Status:         events.Status(d.Status),
		PosterURL:      d.PosterURL,
		SlackMessageTS: d.SlackMessageTS,
		Budget:         d.Budget,
		MaxAttendees:   d.MaxAttendees,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

type eventStore struct{ *Store }

func (s *eventStore) List(ctx context.Context) ([]events.Event, error) {
	items, err := collect(ctx, s.col(colEvents).Query, eventDoc.event)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	slices.SortFunc(items, func(a, b events.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *eventStore) Get(ctx context.Context, id int64) (*events.Event, error) {
	var d eventDoc
	if err := s.get(ctx, colEvents, id, &d, events.ErrNotFound); err != nil {
		return nil, err
	}
	e := d.event()
	return &e, nil
}

func (s *eventStore) Create(ctx context.Context, e *events.Event) error {
	e.CreatedAt = time.Now().UTC()
	id, err := s.create(ctx, colEvents, func(id int64) any {
		d := toEventDoc(e)
		d.ID = id
		return d
	})
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (s *eventStore) Update(ctx context.Context, e *events.Event) error {
	var current eventDoc
	if err := s.get(ctx, colEvents, e.ID, &current, events.ErrNotFound); err != nil {
		return err
	}
	d := toEventDoc(e)
	d.CreatedAt = current.CreatedAt
	return s.replace(ctx, colEvents, e.ID, d, events.ErrNotFound)
}

// Delete removes the event and, in the same transaction, every expense and
// notification that references it.
func (s *eventStore) Delete(ctx context.Context, id int64) error {
	ref := s.doc(colEvents, id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return events.ErrNotFound
			}
			return err
		}
		var dependents []*firestore.DocumentRef
		for _, collection := range []string{colExpenses, colNotifications} {
			refs, err := tx.Documents(s.col(collection).Where("eventId", "==", id)).GetAll()
			if err != nil {
				return fmt.Errorf("load %s: %w", collection, err)
			}
			for _, snap := range refs {
				dependents = append(dependents, snap.Ref)
			}
		}
		for _, dep := range dependents {
			if err := tx.Delete(dep); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
	if err != nil && !errors.Is(err, events.ErrNotFound) {
		return fmt.Errorf("delete event: %w", err)
	}
	return err
}

func (s *eventStore) ExistsOn(ctx context.Context, title string, day time.Time) (bool, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	iter := s.col(colEvents).
		Where("title", "==", title).
		Where("date", ">=", start).
		Where("date", "<", start.AddDate(0, 0, 1)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, iterator.Done):
		return false, nil
	default:
		return false, fmt.Errorf("check event exists: %w", err)
	}
}
