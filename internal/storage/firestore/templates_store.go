package firestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/templates"
)

type templateDoc struct {
	ID                  int64     `firestore:"id"`
	Name                string    `firestore:"name"`
	Title               string    `firestore:"title"`
	Description         string    `firestore:"description"`
	Location            *string   `firestore:"location"`
	Budget              int       `firestore:"budget"`
	MaxAttendees        *int      `firestore:"maxAttendees"`
	IsRecurring         bool      `firestore:"isRecurring"`
	RecurringType       *string   `firestore:"recurringType"`
	RecurringDayOfWeek  *int      `firestore:"recurringDayOfWeek"`
	RecurringDayOfMonth *int      `firestore:"recurringDayOfMonth"`
	CreatedAt           time.Time `firestore:"createdAt"`
}

func toTemplateDoc(t *templates.Template) templateDoc {
	d := templateDoc{
		ID:                  t.ID,
		Name:                t.Name,
		Title:               t.Title,
		Description:         t.Description,
		Location:            t.Location,
		Budget:              t.Budget,
		MaxAttendees:        t.MaxAttendees,
		IsRecurring:         t.IsRecurring,
		RecurringDayOfWeek:  t.RecurringDayOfWeek,
		RecurringDayOfMonth: t.RecurringDayOfMonth,
		CreatedAt:           t.CreatedAt.UTC(),
	}
	if t.RecurringType != nil {
		rt := string(*t.RecurringType)
		d.RecurringType = &rt
	}
	return d
}

func (d templateDoc) template() templates.Template {
	t := templates.Template{
		ID:                  d.ID,
		Name:                d.Name,
		Title:               d.Title,
		Description:         d.Description,
		Location:            d.Location,
		Budget:              d.Budget,
		MaxAttendees:        d.MaxAttendees,
		IsRecurring:         d.IsRecurring,
		RecurringDayOfWeek:  d.RecurringDayOfWeek,
		RecurringDayOfMonth: d.RecurringDayOfMonth,
		CreatedAt:           d.CreatedAt.UTC(),
	}
	if d.RecurringType != nil {
		rt := templates.RecurrenceType(*d.RecurringType)
		t.RecurringType = &rt
	}
	return t
}

type templateStore struct{ *Store }

func (s *templateStore) List(ctx context.Context) ([]templates.Template, error) {
	items, err := collect(ctx, s.col(colTemplates).Query, templateDoc.template)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	slices.SortFunc(items, func(a, b templates.Template) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *templateStore) Get(ctx context.Context, id int64) (*templates.Template, error) {
	var d templateDoc
	if err := s.get(ctx, colTemplates, id, &d, templates.ErrNotFound); err != nil {
		return nil, err
	}
	t := d.template()
	return &t, nil
}

func (s *templateStore) Create(ctx context.Context, t *templates.Template) error {
	t.CreatedAt = time.Now().UTC()
	id, err := s.create(ctx, colTemplates, func(id int64) any {
		d := toTemplateDoc(t)
		d.ID = id
		return d
	})
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *templateStore) Update(ctx context.Context, t *templates.Template) error {
	var current templateDoc
	if err := s.get(ctx, colTemplates, t.ID, &current, templates.ErrNotFound); err != nil {
		return err
	}
	d := toTemplateDoc(t)
	d.CreatedAt = current.CreatedAt
	return s.replace(ctx, colTemplates, t.ID, d, templates.ErrNotFound)
}

func (s *templateStore) Delete(ctx context.Context, id int64) error {
	return s.remove(ctx, colTemplates, id, templates.ErrNotFound)
}
