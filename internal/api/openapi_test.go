package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type openAPIDoc struct {
	OpenAPI string                    `json:"openapi"`
	Servers []struct{ URL string }    `json:"servers"`
	Paths   map[string]map[string]any `json:"paths"`
}

func fetchOpenAPI(t *testing.T, h http.Handler) openAPIDoc {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc openAPIDoc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return doc
}

func TestOpenAPIHandler(t *testing.T) {
	doc := fetchOpenAPI(t, OpenAPIHandler(""))

	require.NotEmpty(t, doc.OpenAPI)
	require.Len(t, doc.Servers, 1)
	require.Equal(t, "/", doc.Servers[0].URL)

	for _, path := range []string{
		"/api/events",
		"/api/events/{id}/budget",
		"/api/events/{id}/sms/send",
		"/api/staff/{id}",
		"/api/templates/{id}/create-event",
	} {
		require.Contains(t, doc.Paths, path)
	}
}

func TestOpenAPIHandlerBaseURL(t *testing.T) {
	doc := fetchOpenAPI(t, OpenAPIHandler("https://glee.example.com"))

	require.Len(t, doc.Servers, 1)
	require.Equal(t, "https://glee.example.com", doc.Servers[0].URL)
	require.Contains(t, doc.Paths, "/api/events")
}
