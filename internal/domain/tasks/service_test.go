package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items  map[int64]Task
	nextID int64
}

func (m *memRepo) List(_ context.Context, filter Filter) ([]Task, error) {
	var out []Task
	for _, v := range m.items {
		if filter.Matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*Task, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *memRepo) Create(_ context.Context, task *Task) error {
	m.nextID++
	task.ID = m.nextID
	m.items[task.ID] = *task
	return nil
}

func (m *memRepo) Update(_ context.Context, task *Task) error {
	m.items[task.ID] = *task
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func newService() *Service {
	return NewService(&memRepo{items: map[int64]Task{}}, zerolog.Nop())
}

func ptr[T any](v T) *T { return &v }

func TestCreateTaskDefaults(t *testing.T) {
	task, err := newService().Create(context.Background(), CreateParams{
		Title:    "Book venue",
		Priority: PriorityHot,
		EventID:  ptr(int64(1)),
	})
	require.NoError(t, err)
	require.Equal(t, StatusTodo, task.Status)
	require.Equal(t, int64(1), *task.EventID)
	require.Nil(t, task.MeetingID)
}

func TestCreateTaskRejectsUnknownPriority(t *testing.T) {
	_, err := newService().Create(context.Background(), CreateParams{Title: "x", Priority: "urgent"})
	var verr validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "priority", verr.Field)
}

func TestListFiltersAndOrders(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	soon := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	later := soon.AddDate(0, 1, 0)

	mustCreate := func(p CreateParams) {
		t.Helper()
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}
	mustCreate(CreateParams{Title: "cold one", Priority: PriorityCold, EventID: ptr(int64(1))})
	mustCreate(CreateParams{Title: "hot later", Priority: PriorityHot, EventID: ptr(int64(1)), DueDate: &later})
	mustCreate(CreateParams{Title: "hot soon", Priority: PriorityHot, EventID: ptr(int64(1)), DueDate: &soon})
	mustCreate(CreateParams{Title: "meeting", Priority: PriorityWarm, MeetingID: ptr(int64(2)), Status: StatusDone})

	items, err := svc.List(ctx, Filter{EventID: 1})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "hot soon", items[0].Title)
	require.Equal(t, "hot later", items[1].Title)
	require.Equal(t, "cold one", items[2].Title)

	done, err := svc.List(ctx, Filter{Status: StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.Equal(t, "meeting", done[0].Title)

	_, err = svc.List(ctx, Filter{Status: "blocked"})
	require.True(t, validation.IsValidationError(err))
}

func TestUpdateClearsReferences(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	due := time.Now()
	task, err := svc.Create(ctx, CreateParams{Title: "x", Priority: PriorityWarm, AssigneeID: ptr(int64(4)), DueDate: &due})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, task.ID, UpdateParams{
		AssigneeID: ptr(int64(0)),
		DueDate:    &time.Time{},
		Status:     ptr(StatusInProgress),
	})
	require.NoError(t, err)
	require.Nil(t, updated.AssigneeID)
	require.Nil(t, updated.DueDate)
	require.Equal(t, StatusInProgress, updated.Status)
}
