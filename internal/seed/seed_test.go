package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) Services {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zerolog.Nop()
	return Services{
		Events:   events.NewService(store.Events(), logger),
		Meetings: meetings.NewService(store.Meetings(), logger),
		Staff:    staff.NewService(store.Staff(), logger),
	}
}

func TestDefaultDocument(t *testing.T) {
	doc, err := Default()
	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	require.Equal(t, "Quarterly Fun Day", doc.Events[0].Title)
	require.Len(t, doc.Meetings, 1)
	require.NotEmpty(t, doc.Staff)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	doc, err := Default()
	require.NoError(t, err)
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	result, err := Apply(ctx, svc, doc, now, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, Result{Events: 1, Meetings: 1, Staff: len(doc.Staff)}, result)

	list, err := svc.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Date.Equal(now.AddDate(0, 0, 7)))
	require.Equal(t, events.StatusPlanning, list[0].Status)

	again, err := Apply(ctx, svc, doc, now, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, Result{}, again)
}

func TestApplySeedsStaffIndependently(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	_, err := svc.Events.Create(ctx, events.CreateParams{Title: "Existing", Date: time.Now()})
	require.NoError(t, err)

	doc := Document{
		Events: []Event{{Title: "Skipped", DaysFromNow: 1}},
		Staff:  []Member{{Name: "Anna", Phone: "+354 555 0101"}, {Name: "Birkir", Phone: "+3545550102", Inactive: true}},
	}
	result, err := Apply(ctx, svc, doc, time.Now(), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, Result{Staff: 2}, result)

	active, err := svc.Staff.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "+3545550101", active[0].Phone)
}

func TestApplyRejectsInvalidRows(t *testing.T) {
	svc := newServices(t)
	doc := Document{Staff: []Member{{Name: "No Country Code", Phone: "5550101"}}}

	_, err := Apply(context.Background(), svc, doc, time.Now(), zerolog.Nop())
	require.ErrorContains(t, err, "No Country Code")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staff:\n  - {name: Dagný, phone: \"+3545550103\"}\n"), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Member{{Name: "Dagný", Phone: "+3545550103"}}, doc.Staff)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Parse([]byte("events: [unclosed"))
	require.Error(t, err)
}
