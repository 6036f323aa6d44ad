package staff

import (
	"context"
	"testing"

	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items  map[int64]Member
	nextID int64
}

func (m *memRepo) List(context.Context) ([]Member, error) {
	out := make([]Member, 0, len(m.items))
	for _, v := range m.items {
		out = append(out, v)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*Member, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *memRepo) Create(_ context.Context, member *Member) error {
	m.nextID++
	member.ID = m.nextID
	m.items[member.ID] = *member
	return nil
}

func (m *memRepo) Update(_ context.Context, member *Member) error {
	m.items[member.ID] = *member
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
	return NewService(&memRepo{items: map[int64]Member{}}, zerolog.Nop())
}

func TestCreateNormalizesPhone(t *testing.T) {
	svc := newService()
	m, err := svc.Create(context.Background(), CreateParams{Name: "Anna Björk", Phone: "+354 854-2824"})
	require.NoError(t, err)
	require.Equal(t, "+3548542824", m.Phone)
	require.True(t, m.IsActive)
}

func TestCreateRejectsInvalidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		msg   string
	}{
		{name: "missing plus", phone: "3548542824", msg: "must start with +"},
		{name: "too short", phone: "+35412", msg: "E.164"},
		{name: "letters", phone: "+354abc1234", msg: "E.164"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService().Create(context.Background(), CreateParams{Name: "X", Phone: tt.phone})
			var verr validation.Error
			require.ErrorAs(t, err, &verr)
			require.Equal(t, "phone", verr.Field)
			require.Contains(t, verr.Message, tt.msg)
		})
	}
}

func TestListActiveSortedByName(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	inactive := false
	_, err := svc.Create(ctx, CreateParams{Name: "Sigrún", Phone: "+3546901234"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Name: "Baldur", Phone: "+3546905678", IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Name: "anna", Phone: "+3546909999"})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "anna", all[0].Name)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, m := range active {
		require.True(t, m.IsActive)
	}
}

func TestUpdateDeactivates(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	m, err := svc.Create(ctx, CreateParams{Name: "Jón", Phone: "+3546901111"})
	require.NoError(t, err)

	off := false
	updated, err := svc.Update(ctx, m.ID, UpdateParams{IsActive: &off})
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	bad := "12"
	_, err = svc.Update(ctx, m.ID, UpdateParams{Phone: &bad})
	require.True(t, validation.IsValidationError(err))

	require.ErrorIs(t, svc.Delete(ctx, 99), ErrNotFound)
}
