package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body ProblemDetails
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteClientErrorKeepsDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/staff", nil)
	rec := httptest.NewRecorder()

	Write(rec, req, http.StatusBadRequest, TypeValidation, "Invalid request", errors.New("phone: must start with +"), "production")

	body := decode(t, rec)
	require.Equal(t, http.StatusBadRequest, body.Status)
	require.Equal(t, "phone: must start with +", body.Detail)
	require.Equal(t, "/api/staff", body.Instance)
}

func TestWriteServerErrorHidesDetailInProduction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)

	rec := httptest.NewRecorder()
	Write(rec, req, http.StatusInternalServerError, TypeServerError, "Server error", errors.New("pq: password authentication failed"), "production")
	require.Equal(t, "Internal Server Error", decode(t, rec).Detail)

	rec = httptest.NewRecorder()
	Write(rec, req, http.StatusInternalServerError, TypeServerError, "Server error", errors.New("boom"), "development")
	require.Equal(t, "boom", decode(t, rec).Detail)
}

func TestWriteOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	rec := httptest.NewRecorder()

	Write(rec, req, http.StatusBadRequest, TypeValidation, "Invalid request", nil, "test",
		WithDetail("title is required"),
		WithErrors(map[string]any{"title": "is required"}),
	)

	body := decode(t, rec)
	require.Equal(t, "title is required", body.Detail)
	require.Equal(t, "is required", body.Errors["title"])
}
