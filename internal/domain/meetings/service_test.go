package meetings

import (
	"context"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items  map[int64]Meeting
	nextID int64
}

func (m *memRepo) List(context.Context) ([]Meeting, error) {
	out := make([]Meeting, 0, len(m.items))
	for _, v := range m.items {
		out = append(out, v)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*Meeting, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *memRepo) Create(_ context.Context, meeting *Meeting) error {
	m.nextID++
	meeting.ID = m.nextID
	m.items[meeting.ID] = *meeting
	return nil
}

func (m *memRepo) Update(_ context.Context, meeting *Meeting) error {
	m.items[meeting.ID] = *meeting
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
	return NewService(&memRepo{items: map[int64]Meeting{}}, zerolog.Nop())
}

func TestCreateMeeting(t *testing.T) {
	svc := newService()
	link := "https://loop.microsoft.com/example"
	notes := "<p>Initial brainstorming</p><script>x()</script>"
	chair := int64(0)

	m, err := svc.Create(context.Background(), CreateParams{
		Title:         "Kickoff Planning Meeting",
		Date:          time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		LoopLink:      &link,
		Minutes:       &notes,
		ChairpersonID: &chair,
	})
	require.NoError(t, err)
	require.Equal(t, StatusScheduled, m.Status)
	require.Equal(t, "<p>Initial brainstorming</p>", *m.Minutes)
	require.Nil(t, m.ChairpersonID)
	require.Equal(t, link, *m.LoopLink)
}

func TestCreateMeetingRejectsBadLink(t *testing.T) {
	svc := newService()
	link := "javascript:alert(1)"

	_, err := svc.Create(context.Background(), CreateParams{Title: "x", Date: time.Now(), LoopLink: &link})
	var verr validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "loopLink", verr.Field)
}

func TestUpdateMeetingCompletes(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	m, err := svc.Create(ctx, CreateParams{Title: "Retro", Date: time.Now()})
	require.NoError(t, err)

	done := StatusCompleted
	minutes := "Decided on a summer BBQ."
	secretary := int64(3)
	updated, err := svc.Update(ctx, m.ID, UpdateParams{Status: &done, Minutes: &minutes, SecretaryID: &secretary})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, updated.Status)
	require.Equal(t, "Decided on a summer BBQ.", *updated.Minutes)
	require.Equal(t, int64(3), *updated.SecretaryID)

	_, err = svc.Update(ctx, 42, UpdateParams{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateParams{Title: "M", Date: base.AddDate(0, i, 0)})
		require.NoError(t, err)
	}
	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), items[0].ID)
	require.Equal(t, int64(1), items[2].ID)
}
