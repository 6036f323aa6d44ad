package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionHandler(t *testing.T) {
	tests := []struct {
		name  string
		build BuildInfo
		want  versionResponse
	}{
		{
			name:  "stamped build",
			build: BuildInfo{Version: "0.4.2", GitCommit: "9f1c2ab", BuildDate: "2026-09-30T08:00:00Z"},
			want:  versionResponse{Version: "0.4.2", GitCommit: "9f1c2ab", BuildDate: "2026-09-30T08:00:00Z"},
		},
		{
			name: "unstamped build",
			want: versionResponse{Version: "dev", GitCommit: "unknown", BuildDate: "unknown"},
		},
		{
			name:  "release without commit",
			build: BuildInfo{Version: "1.0.0"},
			want:  versionResponse{Version: "1.0.0", GitCommit: "unknown", BuildDate: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			VersionHandler(tt.build).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got versionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			tt.want.GoVersion = runtime.Version()
			require.Equal(t, tt.want, got)
		})
	}
}

func TestVersionResponseFieldNames(t *testing.T) {
	w := httptest.NewRecorder()
	VersionHandler(BuildInfo{Version: "1.0.0"}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	var raw map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"version", "git_commit", "build_date", "go_version"} {
		require.Contains(t, raw, key)
	}
}
