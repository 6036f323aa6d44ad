package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Togather-Foundation/glee/internal/api"
	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/seed"
	"github.com/Togather-Foundation/glee/internal/sms"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Environment: "test",
		Storage: config.StorageConfig{
			Backend:    config.BackendSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "app.db"),
		},
		SMS:       config.SMSConfig{Concurrency: 2},
		CORS:      config.CORSConfig{AllowAllOrigins: true},
		Jobs:      config.JobsConfig{Enabled: true, RecurringHorizonDays: 14},
		Templates: config.TemplatesConfig{DefaultHour: 17},
	}
}

func TestNewSQLite(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, sqliteConfig(t), zerolog.Nop(), nil, api.BuildInfo{Version: "1.2.3"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close(ctx)) })

	require.Nil(t, a.Jobs)
	require.Nil(t, a.Queue)
	require.NoError(t, a.StartJobs(ctx))

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSeedThroughApp(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, sqliteConfig(t), zerolog.Nop(), nil, api.BuildInfo{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	doc, err := seed.Default()
	require.NoError(t, err)
	result, err := a.Seed(ctx, doc)
	require.NoError(t, err)
	require.Equal(t, 1, result.Events)

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Quarterly Fun Day")
}

func TestNewSender(t *testing.T) {
	_, ok := NewSender(config.SMSConfig{}, zerolog.Nop()).(*sms.LogSender)
	require.True(t, ok)

	_, ok = NewSender(config.SMSConfig{Enabled: true, AccountSID: "AC1", AuthToken: "t", SenderID: "Glee"}, zerolog.Nop()).(*sms.TwilioSender)
	require.True(t, ok)
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Storage.Backend = "mongo"
	_, err := New(context.Background(), cfg, zerolog.Nop(), nil, api.BuildInfo{})
	require.Error(t, err)
}
