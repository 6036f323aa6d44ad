package templates

import (
	"context"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items  map[int64]Template
	nextID int64
}

func (m *memRepo) List(context.Context) ([]Template, error) {
	out := make([]Template, 0, len(m.items))
	for _, v := range m.items {
		out = append(out, v)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*Template, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *memRepo) Create(_ context.Context, t *Template) error {
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Date(2026, 10, 4, 12, 0, 0, 0, time.UTC)
	m.items[t.ID] = *t
	return nil
}

func (m *memRepo) Update(_ context.Context, t *Template) error {
	m.items[t.ID] = *t
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type stubEvents struct {
	created []events.CreateParams
	exists  map[string]bool
}

func (s *stubEvents) Create(_ context.Context, p events.CreateParams) (*events.Event, error) {
	s.created = append(s.created, p)
	return &events.Event{
		ID:           int64(len(s.created)),
		Title:        p.Title,
		Date:         p.Date,
		Status:       p.Status,
		Budget:       p.Budget,
		MaxAttendees: p.MaxAttendees,
		Location:     p.Location,
	}, nil
}

func (s *stubEvents) ExistsOn(_ context.Context, title string, day time.Time) (bool, error) {
	return s.exists[title+"@"+day.Format(time.DateOnly)], nil
}

func newService(evs *stubEvents) *Service {
	svc := NewService(&memRepo{items: map[int64]Template{}}, evs, 17, zerolog.Nop())
	svc.location = time.UTC
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestCreateTemplateValidation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateParams
		field  string
	}{
		{name: "missing name", params: CreateParams{Title: "x"}, field: "name"},
		{name: "recurring without type", params: CreateParams{Name: "n", Title: "t", IsRecurring: true}, field: "recurringType"},
		{name: "unknown type", params: CreateParams{Name: "n", Title: "t", IsRecurring: true, RecurringType: ptr(RecurrenceType("daily"))}, field: "recurringType"},
		{name: "weekly without weekday", params: CreateParams{Name: "n", Title: "t", IsRecurring: true, RecurringType: ptr(RecurrenceWeekly)}, field: "recurringDayOfWeek"},
		{name: "monthly without day", params: CreateParams{Name: "n", Title: "t", IsRecurring: true, RecurringType: ptr(RecurrenceMonthly)}, field: "recurringDayOfMonth"},
		{name: "weekday out of range", params: CreateParams{Name: "n", Title: "t", RecurringDayOfWeek: ptr(7)}, field: "recurringDayOfWeek"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(&stubEvents{}).Create(context.Background(), tt.params)
			var verr validation.Error
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestInstantiateWithDate(t *testing.T) {
	evs := &stubEvents{}
	svc := newService(evs)
	ctx := context.Background()
	tmpl, err := svc.Create(ctx, CreateParams{
		Name:         "Pub quiz",
		Title:        "Friday Pub Quiz",
		Description:  "Teams of four",
		Location:     ptr("Kaffistofan"),
		Budget:       15000,
		MaxAttendees: ptr(40),
	})
	require.NoError(t, err)

	date := time.Date(2026, 11, 6, 18, 0, 0, 0, time.UTC)
	event, err := svc.Instantiate(ctx, tmpl.ID, &date)
	require.NoError(t, err)
	require.Equal(t, "Friday Pub Quiz", event.Title)
	require.Equal(t, date, event.Date)
	require.Len(t, evs.created, 1)
	require.Equal(t, events.StatusPlanning, evs.created[0].Status)
	require.Equal(t, 15000, evs.created[0].Budget)
	require.Equal(t, 40, *evs.created[0].MaxAttendees)
	require.Nil(t, evs.created[0].PosterURL)
}

func TestInstantiateWithoutDate(t *testing.T) {
	evs := &stubEvents{}
	svc := newService(evs)
	ctx := context.Background()

	oneOff, err := svc.Create(ctx, CreateParams{Name: "Gala", Title: "Winter Gala"})
	require.NoError(t, err)
	_, err = svc.Instantiate(ctx, oneOff.ID, nil)
	var verr validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "date", verr.Field)

	weekly, err := svc.Create(ctx, CreateParams{
		Name: "Quiz", Title: "Pub Quiz", IsRecurring: true,
		RecurringType: ptr(RecurrenceWeekly), RecurringDayOfWeek: ptr(5),
	})
	require.NoError(t, err)
	event, err := svc.Instantiate(ctx, weekly.ID, nil)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 10, 16, 17, 0, 0, 0, time.UTC), event.Date)

	_, err = svc.Instantiate(ctx, 404, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleUpcoming(t *testing.T) {
	evs := &stubEvents{exists: map[string]bool{"Breakfast@2026-10-15": true}}
	svc := newService(evs)
	ctx := context.Background()

	for _, p := range []CreateParams{
		{Name: "Quiz", Title: "Pub Quiz", IsRecurring: true, RecurringType: ptr(RecurrenceWeekly), RecurringDayOfWeek: ptr(5)},
		{Name: "Breakfast", Title: "Breakfast", IsRecurring: true, RecurringType: ptr(RecurrenceWeekly), RecurringDayOfWeek: ptr(4)},
		{Name: "Monthly", Title: "Birthdays", IsRecurring: true, RecurringType: ptr(RecurrenceMonthly), RecurringDayOfMonth: ptr(1)},
		{Name: "Gala", Title: "Winter Gala"},
	} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	created, err := svc.ScheduleUpcoming(ctx, 7*24*time.Hour, evs)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, "Pub Quiz", created[0].Title)
}
