package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/sms"
	"github.com/Togather-Foundation/glee/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	eventIDs []int64
}

func (f *fakeEnqueuer) EnqueueSMSDispatch(_ context.Context, eventID int64) (int64, error) {
	f.eventIDs = append(f.eventIDs, eventID)
	return 42, nil
}

func newTestRouter(t *testing.T, enqueuer *fakeEnqueuer) http.Handler {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "glee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zerolog.Nop()
	cfg := config.Config{
		Environment: "test",
		Storage:     config.StorageConfig{Backend: config.BackendSQLite},
		CORS:        config.CORSConfig{AllowAllOrigins: true},
		Templates:   config.TemplatesConfig{DefaultHour: 17},
	}

	eventService := events.NewService(store.Events(), logger)
	staffService := staff.NewService(store.Staff(), logger)
	services := Services{
		Events:        eventService,
		Meetings:      meetings.NewService(store.Meetings(), logger),
		Tasks:         tasks.NewService(store.Tasks(), logger),
		Staff:         staffService,
		Expenses:      expenses.NewService(store.Expenses(), eventService, logger),
		Templates:     templates.NewService(store.Templates(), eventService, cfg.Templates.DefaultHour, logger),
		Notifications: notifications.NewService(store.Notifications(), eventService, staffService, sms.NewLogSender(logger), 2, logger),
	}

	deps := Dependencies{Services: services, Store: store}
	if enqueuer != nil {
		deps.Enqueuer = enqueuer
	}
	return NewRouter(cfg, logger, deps)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestEventLifecycle(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/events", `{"title":"Þorrablót","description":"<b>Food</b><script>x</script>","date":"2026-02-06T18:00","budget":150000,"location":"Canteen"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[events.Event](t, w)
	require.Positive(t, created.ID)
	require.Equal(t, events.StatusPlanning, created.Status)
	require.Equal(t, time.Date(2026, 2, 6, 18, 0, 0, 0, time.UTC), created.Date)
	require.NotContains(t, created.Description, "script")

	w = do(t, h, http.MethodPost, "/api/events", `{"title":"Summer party","date":"2026-06-20","budget":0}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]events.Event](t, w)
	require.Len(t, list, 2)
	require.Equal(t, "Þorrablót", list[0].Title)

	w = do(t, h, http.MethodPatch, "/api/events/1", `{"status":"advertised","location":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[events.Event](t, w)
	require.Equal(t, events.StatusAdvertised, updated.Status)
	require.Nil(t, updated.Location)
	require.Equal(t, "Þorrablót", updated.Title)

	w = do(t, h, http.MethodPost, "/api/events/1/expenses", `{"description":"Catering","amount":90000,"category":"food","vendor":"Múlakaffi"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, h, http.MethodPost, "/api/events/1/expenses", `{"description":"Band","amount":80000,"category":"entertainment"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/events/1/budget", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[expenses.Summary](t, w)
	require.Equal(t, 150000, summary.Budget)
	require.Equal(t, 170000, summary.Spent)
	require.Equal(t, -20000, summary.Remaining)
	require.Equal(t, 2, summary.ExpenseCount)
	require.Equal(t, 90000, summary.ByCategory[expenses.CategoryFood])

	w = do(t, h, http.MethodDelete, "/api/events/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/events/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, http.MethodPatch, "/api/expenses/1", `{"amount":1}`)
	require.Equal(t, http.StatusNotFound, w.Code, "expenses are removed with their event")
}

func TestRequestValidation(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		field  string
	}{
		{"unknown field", http.MethodPost, "/api/events", `{"title":"x","date":"2026-01-01","colour":"red"}`, http.StatusBadRequest, "colour"},
		{"missing title", http.MethodPost, "/api/events", `{"date":"2026-01-01"}`, http.StatusBadRequest, "title"},
		{"missing date", http.MethodPost, "/api/events", `{"title":"x"}`, http.StatusBadRequest, "date"},
		{"bad status", http.MethodPost, "/api/events", `{"title":"x","date":"2026-01-01","status":"cancelled"}`, http.StatusBadRequest, "status"},
		{"negative budget", http.MethodPost, "/api/events", `{"title":"x","date":"2026-01-01","budget":-5}`, http.StatusBadRequest, "budget"},
		{"bad date", http.MethodPost, "/api/events", `{"title":"x","date":"next friday"}`, http.StatusBadRequest, "date"},
		{"malformed json", http.MethodPost, "/api/events", `{"title":`, http.StatusBadRequest, "body"},
		{"trailing data", http.MethodPost, "/api/events", `{"title":"x","date":"2026-01-01"} {}`, http.StatusBadRequest, "body"},
		{"bad id", http.MethodGet, "/api/events/abc", "", http.StatusBadRequest, "id"},
		{"zero id", http.MethodGet, "/api/events/0", "", http.StatusBadRequest, "id"},
		{"bad phone", http.MethodPost, "/api/staff", `{"name":"Jón","phone":"5551234"}`, http.StatusBadRequest, "phone"},
		{"bad category", http.MethodPost, "/api/events/1/expenses", `{"description":"x","amount":1,"category":"travel"}`, http.StatusBadRequest, "category"},
		{"bad task filter", http.MethodGet, "/api/tasks?status=blocked", "", http.StatusBadRequest, "status"},
		{"bad task event filter", http.MethodGet, "/api/tasks?eventId=x", "", http.StatusBadRequest, "eventId"},
		{"empty staff ids", http.MethodPost, "/api/events/1/sms", `{"message":"hi","staffIds":[]}`, http.StatusBadRequest, "staffIds"},
		{"missing event", http.MethodGet, "/api/events/999", "", http.StatusNotFound, ""},
		{"missing event expenses", http.MethodPost, "/api/events/999/expenses", `{"description":"x","amount":1,"category":"food"}`, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

			var p struct {
				Status int               `json:"status"`
				Errors map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
			require.Equal(t, tt.status, p.Status)
			if tt.field != "" {
				require.Contains(t, p.Errors, tt.field)
			}
		})
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	h := newTestRouter(t, nil)

	body := `{"title":"x","date":"2026-01-01","description":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSMSFlow(t *testing.T) {
	h := newTestRouter(t, nil)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/events", `{"title":"Quiz night","date":"2026-03-12"}`).Code)
	w := do(t, h, http.MethodPost, "/api/staff", `{"name":"Anna Jónsdóttir","phone":"+354 555-1234"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	member := decode[staff.Member](t, w)
	require.Equal(t, "+3545551234", member.Phone)
	require.True(t, member.IsActive)

	w = do(t, h, http.MethodPost, "/api/events/1/sms", `{"message":"Quiz tonight at 17:00","staffIds":[1,77]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	queued := decode[[]notifications.Notification](t, w)
	require.Len(t, queued, 2)
	for _, n := range queued {
		require.Equal(t, notifications.StatusPending, n.Status)
	}

	w = do(t, h, http.MethodPost, "/api/events/1/sms/send", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[notifications.DispatchResult](t, w)
	require.Equal(t, 1, result.Sent)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, "Sent 1 message(s), 1 failed", result.Message)

	w = do(t, h, http.MethodGet, "/api/events/1/sms", "")
	require.Equal(t, http.StatusOK, w.Code)
	byStaff := map[int64]notifications.Notification{}
	for _, n := range decode[[]notifications.Notification](t, w) {
		byStaff[n.StaffID] = n
	}
	require.Equal(t, notifications.StatusSent, byStaff[1].Status)
	require.NotNil(t, byStaff[1].ProviderID)
	require.NotNil(t, byStaff[1].SentAt)
	require.Equal(t, notifications.StatusFailed, byStaff[77].Status)

	w = do(t, h, http.MethodPost, "/api/events/1/sms/send?async=true", "")
	require.Equal(t, http.StatusOK, w.Code, "without a job queue the dispatch runs inline")
	require.JSONEq(t, `{"sent":0,"failed":0,"message":"No pending notifications"}`, w.Body.String())

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/events/9/sms/send", "").Code)
}

func TestSMSSendAsync(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	h := newTestRouter(t, enqueuer)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/events", `{"title":"Bingo","date":"2026-04-01"}`).Code)

	w := do(t, h, http.MethodPost, "/api/events/1/sms/send?async=true", "")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.JSONEq(t, `{"jobId":42}`, w.Body.String())
	require.Equal(t, []int64{1}, enqueuer.eventIDs)

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/events/5/sms/send?async=true", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/events/1/sms/send?async=maybe", "").Code)
	require.Len(t, enqueuer.eventIDs, 1)
}

func TestTemplateCreateEvent(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/templates", `{"name":"Friday coffee","title":"Coffee & cake","budget":20000,"isRecurring":true,"recurringType":"weekly","recurringDayOfWeek":5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/templates/1/create-event", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	event := decode[events.Event](t, w)
	require.Equal(t, "Coffee & cake", event.Title)
	require.Equal(t, events.StatusPlanning, event.Status)
	require.Equal(t, 20000, event.Budget)
	require.True(t, event.Date.After(time.Now()))

	w = do(t, h, http.MethodPost, "/api/templates/1/create-event", `{"date":"2026-09-04"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), decode[events.Event](t, w).Date)

	w = do(t, h, http.MethodPost, "/api/templates", `{"name":"Annual dinner","title":"Dinner"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, h, http.MethodPost, "/api/templates/2/create-event", "")
	require.Equal(t, http.StatusBadRequest, w.Code, "a one-off template needs an explicit date")

	w = do(t, h, http.MethodPost, "/api/templates", `{"name":"Broken","title":"x","isRecurring":true}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasksAndMeetings(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodPost, "/api/meetings", `{"title":"Committee sync","date":"2026-01-15T12:00:00Z","minutes":"<p>Agreed</p><img src=x onerror=alert(1)>"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	meeting := decode[meetings.Meeting](t, w)
	require.Equal(t, meetings.StatusScheduled, meeting.Status)
	require.NotNil(t, meeting.Minutes)
	require.NotContains(t, *meeting.Minutes, "onerror")

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/tasks", `{"title":"Book venue","priority":"hot","meetingId":1,"dueDate":"2026-01-20"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/tasks", `{"title":"Order cake","priority":"cold","status":"done"}`).Code)

	w = do(t, h, http.MethodGet, "/api/tasks?meetingId=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]tasks.Task](t, w)
	require.Len(t, list, 1)
	require.Equal(t, "Book venue", list[0].Title)

	w = do(t, h, http.MethodGet, "/api/tasks?status=done", "")
	require.Len(t, decode[[]tasks.Task](t, w), 1)

	w = do(t, h, http.MethodPatch, "/api/tasks/1", `{"dueDate":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Nil(t, decode[tasks.Task](t, w).DueDate)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/api/meetings/1", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/meetings/1", "").Code)
}

func TestStaffActiveFilter(t *testing.T) {
	h := newTestRouter(t, nil)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/staff", `{"name":"Björn","phone":"+3546901234"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/staff", `{"name":"Sigga","phone":"+3546905678","isActive":false}`).Code)

	require.Len(t, decode[[]staff.Member](t, do(t, h, http.MethodGet, "/api/staff", "")), 2)
	active := decode[[]staff.Member](t, do(t, h, http.MethodGet, "/api/staff?active=true", ""))
	require.Len(t, active, 1)
	require.Equal(t, "Björn", active[0].Name)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/staff?active=sometimes", "").Code)
}

func TestRouterInfrastructure(t *testing.T) {
	h := newTestRouter(t, nil)

	w := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/openapi.json", "").Code)

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "glee_http_requests_total")

	w = do(t, h, http.MethodPut, "/api/events", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Contains(t, w.Header().Get("Allow"), http.MethodGet)

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/nothing", "").Code)
}
