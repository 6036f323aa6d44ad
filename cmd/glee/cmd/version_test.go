package cmd

import (
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	}()

	Version = "1.0.0"
	GitCommit = "abc123"
	BuildDate = "2026-01-27T12:00:00Z"

	output, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	expectedStrings := []string{
		"Glee",
		"Version:    1.0.0",
		"Git commit: abc123",
		"Build date: 2026-01-27T12:00:00Z",
		"Go version:",
		"Platform:",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, output)
		}
	}
}

func TestBuildInfo(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "2.0.0"
	if got := buildInfo().Version; got != "2.0.0" {
		t.Errorf("buildInfo().Version = %q, want 2.0.0", got)
	}
}
