package api

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// BuildInfo is stamped into the binary with -ldflags.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

type versionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func (b BuildInfo) withDefaults() BuildInfo {
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.GitCommit == "" {
		b.GitCommit = "unknown"
	}
	if b.BuildDate == "" {
		b.BuildDate = "unknown"
	}
	return b
}

// VersionHandler serves build metadata.
func VersionHandler(build BuildInfo) http.Handler {
	build = build.withDefaults()
	body, _ := json.Marshal(versionResponse{
		Version:   build.Version,
		GitCommit: build.GitCommit,
		BuildDate: build.BuildDate,
		GoVersion: runtime.Version(),
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}
