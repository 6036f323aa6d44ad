// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/storage"
	"github.com/stretchr/testify/require"
)

// Options tunes the suite for backend capabilities.
type Options struct {
	// Transactional backends roll back WithTx work when fn fails.
	Transactional bool
}

// Run exercises repo. newRepo must return an empty repository per call.
func Run(t *testing.T, newRepo func(t *testing.T) storage.Repository, opts Options) {
	t.Helper()
	cases := []struct {
		name string
		fn   func(t *testing.T, repo storage.Repository)
	}{
		{"Events", testEvents},
		{"EventCascade", testEventCascade},
		{"Meetings", testMeetings},
		{"Tasks", testTasks},
		{"Staff", testStaff},
		{"Expenses", testExpenses},
		{"Templates", testTemplates},
		{"Notifications", testNotifications},
		{"Ping", testPing},
	}
	if opts.Transactional {
		cases = append(cases, struct {
			name string
			fn   func(t *testing.T, repo storage.Repository)
		}{"WithTxRollback", testWithTxRollback})
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newRepo(t))
		})
	}
}

func ptr[T any](v T) *T { return &v }

var eventDate = time.Date(2026, 11, 6, 17, 0, 0, 0, time.UTC)

func mustEvent(t *testing.T, repo storage.Repository, title string, date time.Time) *events.Event {
	t.Helper()
	e := &events.Event{Title: title, Description: "desc", Date: date, Status: events.StatusPlanning, Budget: 50000}
	require.NoError(t, repo.Events().Create(context.Background(), e))
	require.NotZero(t, e.ID)
	return e
}

func testEvents(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	r := repo.Events()

	e := &events.Event{
		Title:        "Summer BBQ",
		Description:  "<p>Grill</p>",
		Date:         eventDate,
		Location:     ptr("Rooftop"),
		Status:       events.StatusPlanning,
		Budget:       80000,
		MaxAttendees: ptr(60),
	}
	require.NoError(t, r.Create(ctx, e))
	require.NotZero(t, e.ID)
	require.False(t, e.CreatedAt.IsZero())
	second := mustEvent(t, repo, "Autumn Quiz", eventDate.AddDate(0, -1, 0))
	require.Greater(t, second.ID, e.ID)

	got, err := r.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "Summer BBQ", got.Title)
	require.True(t, got.Date.Equal(eventDate))
	require.Equal(t, "Rooftop", *got.Location)
	require.Equal(t, 60, *got.MaxAttendees)
	require.Nil(t, got.PosterURL)

	got.Status = events.StatusAdvertised
	got.PosterURL = ptr("https://cdn.example.com/p.png")
	got.MaxAttendees = nil
	require.NoError(t, r.Update(ctx, got))
	reloaded, err := r.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, events.StatusAdvertised, reloaded.Status)
	require.Equal(t, "https://cdn.example.com/p.png", *reloaded.PosterURL)
	require.Nil(t, reloaded.MaxAttendees)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	exists, err := r.ExistsOn(ctx, "Summer BBQ", time.Date(2026, 11, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = r.ExistsOn(ctx, "Summer BBQ", time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.False(t, exists)

	_, err = r.Get(ctx, 999999)
	require.ErrorIs(t, err, events.ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, &events.Event{ID: 999999, Title: "x", Date: eventDate, Status: events.StatusPlanning}), events.ErrNotFound)
	require.NoError(t, r.Delete(ctx, e.ID))
	require.ErrorIs(t, r.Delete(ctx, e.ID), events.ErrNotFound)
}

func testEventCascade(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	e := mustEvent(t, repo, "Þorrablót", eventDate)
	keep := mustEvent(t, repo, "Keep", eventDate)

	require.NoError(t, repo.Expenses().Create(ctx, &expenses.Expense{EventID: e.ID, Description: "Hákarl", Amount: 9000, Category: expenses.CategoryFood}))
	require.NoError(t, repo.Expenses().Create(ctx, &expenses.Expense{EventID: keep.ID, Description: "Cups", Amount: 500, Category: expenses.CategoryOther}))
	require.NoError(t, repo.Notifications().CreateBatch(ctx, []*notifications.Notification{
		{EventID: e.ID, StaffID: 1, Message: "hi", Status: notifications.StatusPending},
	}))

	require.NoError(t, repo.Events().Delete(ctx, e.ID))

	gone, err := repo.Expenses().ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, gone)
	rows, err := repo.Notifications().ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, rows)
	kept, err := repo.Expenses().ListByEvent(ctx, keep.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
}

func testMeetings(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	r := repo.Meetings()

	m := &meetings.Meeting{
		Title:         "Kickoff",
		Date:          eventDate,
		ChairpersonID: ptr(int64(3)),
		LoopLink:      ptr("https://loop.example.com/x"),
		Status:        meetings.StatusScheduled,
	}
	require.NoError(t, r.Create(ctx, m))
	require.NotZero(t, m.ID)

	m.Minutes = ptr("<p>Agreed on a date</p>")
	m.Status = meetings.StatusCompleted
	m.ChairpersonID = nil
	require.NoError(t, r.Update(ctx, m))

	got, err := r.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, meetings.StatusCompleted, got.Status)
	require.Equal(t, "<p>Agreed on a date</p>", *got.Minutes)
	require.Nil(t, got.ChairpersonID)
	require.Equal(t, "https://loop.example.com/x", *got.LoopLink)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.Delete(ctx, m.ID))
	_, err = r.Get(ctx, m.ID)
	require.ErrorIs(t, err, meetings.ErrNotFound)
}

func testTasks(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	r := repo.Tasks()
	due := time.Date(2026, 10, 30, 12, 0, 0, 0, time.UTC)

	for _, task := range []*tasks.Task{
		{Title: "Book venue", Priority: tasks.PriorityHot, Status: tasks.StatusTodo, EventID: ptr(int64(1)), DueDate: &due},
		{Title: "Order cake", Priority: tasks.PriorityWarm, Status: tasks.StatusDone, EventID: ptr(int64(1))},
		{Title: "Write minutes", Priority: tasks.PriorityCold, Status: tasks.StatusTodo, MeetingID: ptr(int64(2)), AssigneeID: ptr(int64(5))},
	} {
		require.NoError(t, r.Create(ctx, task))
		require.NotZero(t, task.ID)
	}

	byEvent, err := r.List(ctx, tasks.Filter{EventID: 1})
	require.NoError(t, err)
	require.Len(t, byEvent, 2)

	byMeeting, err := r.List(ctx, tasks.Filter{MeetingID: 2})
	require.NoError(t, err)
	require.Len(t, byMeeting, 1)
	require.Equal(t, int64(5), *byMeeting[0].AssigneeID)

	done, err := r.List(ctx, tasks.Filter{EventID: 1, Status: tasks.StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.Equal(t, "Order cake", done[0].Title)

	all, err := r.List(ctx, tasks.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	task := byEvent[0]
	if task.Title != "Book venue" {
		task = byEvent[1]
	}
	require.True(t, task.DueDate.Equal(due))
	task.DueDate = nil
	task.Status = tasks.StatusInProgress
	require.NoError(t, r.Update(ctx, &task))
	got, err := r.Get(ctx, task.ID)
	require.NoError(t, err)
	require.Nil(t, got.DueDate)
	require.Equal(t, tasks.StatusInProgress, got.Status)

	require.NoError(t, r.Delete(ctx, task.ID))
	require.ErrorIs(t, r.Delete(ctx, task.ID), tasks.ErrNotFound)
}

func testStaff(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	r := repo.Staff()

	m := &staff.Member{Name: "Anna", Phone: "+3546900001", IsActive: true}
	require.NoError(t, r.Create(ctx, m))
	require.NotZero(t, m.ID)
	require.False(t, m.CreatedAt.IsZero())
	require.NoError(t, r.Create(ctx, &staff.Member{Name: "Baldur", Phone: "+3546900002", IsActive: false}))

	m.IsActive = false
	m.Phone = "+3546909999"
	require.NoError(t, r.Update(ctx, m))
	got, err := r.Get(ctx, m.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.Equal(t, "+3546909999", got.Phone)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, r.Delete(ctx, m.ID))
	_, err = r.Get(ctx, m.ID)
	require.ErrorIs(t, err, staff.ErrNotFound)
}

func testExpenses(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	e := mustEvent(t, repo, "Gala", eventDate)
	r := repo.Expenses()

	paid := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	exp := &expenses.Expense{EventID: e.ID, Description: "Band", Amount: 120000, Category: expenses.CategoryEntertainment, Vendor: ptr("Hljómsveitin"), PaidAt: &paid}
	require.NoError(t, r.Create(ctx, exp))
	require.NotZero(t, exp.ID)
	require.False(t, exp.CreatedAt.IsZero())

	exp.Amount = 110000
	exp.Vendor = nil
	require.NoError(t, r.Update(ctx, exp))

	got, err := r.Get(ctx, exp.ID)
	require.NoError(t, err)
	require.Equal(t, 110000, got.Amount)
	require.Nil(t, got.Vendor)
	require.True(t, got.PaidAt.Equal(paid))

	list, err := r.ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.Delete(ctx, exp.ID))
	require.ErrorIs(t, r.Delete(ctx, exp.ID), expenses.ErrNotFound)
}

func testTemplates(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	r := repo.Templates()

	weekly := templates.RecurrenceWeekly
	tmpl := &templates.Template{
		Name:               "Quiz",
		Title:              "Friday Pub Quiz",
		Description:        "Teams of four",
		Budget:             15000,
		IsRecurring:        true,
		RecurringType:      &weekly,
		RecurringDayOfWeek: ptr(5),
	}
	require.NoError(t, r.Create(ctx, tmpl))
	require.NotZero(t, tmpl.ID)
	require.False(t, tmpl.CreatedAt.IsZero())

	got, err := r.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Equal(t, templates.RecurrenceWeekly, *got.RecurringType)
	require.Equal(t, 5, *got.RecurringDayOfWeek)
	require.Nil(t, got.RecurringDayOfMonth)

	monthly := templates.RecurrenceMonthly
	got.RecurringType = &monthly
	got.RecurringDayOfWeek = nil
	got.RecurringDayOfMonth = ptr(31)
	require.NoError(t, r.Update(ctx, got))
	reloaded, err := r.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Equal(t, templates.RecurrenceMonthly, *reloaded.RecurringType)
	require.Equal(t, 31, *reloaded.RecurringDayOfMonth)
	require.Nil(t, reloaded.RecurringDayOfWeek)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.Delete(ctx, tmpl.ID))
	_, err = r.Get(ctx, tmpl.ID)
	require.ErrorIs(t, err, templates.ErrNotFound)
}

func testNotifications(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	e := mustEvent(t, repo, "Party", eventDate)
	r := repo.Notifications()

	batch := []*notifications.Notification{
		{EventID: e.ID, StaffID: 1, Message: "See you", Status: notifications.StatusPending},
		{EventID: e.ID, StaffID: 2, Message: "See you", Status: notifications.StatusPending},
		{EventID: e.ID, StaffID: 404, Message: "See you", Status: notifications.StatusPending},
	}
	require.NoError(t, r.CreateBatch(ctx, batch))
	for _, n := range batch {
		require.NotZero(t, n.ID)
		require.False(t, n.CreatedAt.IsZero())
	}

	sentAt := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	batch[0].Status = notifications.StatusSent
	batch[0].SentAt = &sentAt
	batch[0].ProviderID = ptr("SM123")
	require.NoError(t, r.UpdateDelivery(ctx, batch[0]))
	batch[2].Status = notifications.StatusFailed
	batch[2].SentAt = &sentAt
	batch[2].Error = ptr("staff member not found")
	require.NoError(t, r.UpdateDelivery(ctx, batch[2]))

	list, err := r.ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	byID := map[int64]notifications.Notification{}
	for _, n := range list {
		byID[n.ID] = n
	}
	require.Equal(t, notifications.StatusSent, byID[batch[0].ID].Status)
	require.Equal(t, "SM123", *byID[batch[0].ID].ProviderID)
	require.True(t, byID[batch[0].ID].SentAt.Equal(sentAt))
	require.Equal(t, notifications.StatusPending, byID[batch[1].ID].Status)
	require.Nil(t, byID[batch[1].ID].SentAt)
	require.Equal(t, "staff member not found", *byID[batch[2].ID].Error)

	missing := &notifications.Notification{ID: 999999, Status: notifications.StatusSent}
	require.ErrorIs(t, r.UpdateDelivery(ctx, missing), notifications.ErrNotFound)
}

func testPing(t *testing.T, repo storage.Repository) {
	require.NoError(t, repo.Ping(context.Background()))
}

func testWithTxRollback(t *testing.T, repo storage.Repository) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		require.NoError(t, tx.Staff().Create(ctx, &staff.Member{Name: "Ghost", Phone: "+3546900000", IsActive: true}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := repo.Staff().List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	err = repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		return tx.Staff().Create(ctx, &staff.Member{Name: "Real", Phone: "+3546900001", IsActive: true})
	})
	require.NoError(t, err)
	list, err = repo.Staff().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
