package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// useSQLite points configuration at a fresh sqlite database.
func useSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glee.db")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("SMS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectError    bool
	}{
		{name: "help flag", args: []string{"--help"}, expectedOutput: "social committee portal"},
		{name: "short help flag", args: []string{"-h"}, expectedOutput: "social committee portal"},
		{name: "invalid flag", args: []string{"--invalid-flag"}, expectedOutput: "unknown flag: --invalid-flag", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, tt.args...)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Contains(t, output, tt.expectedOutput)
		})
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, flag := range []string{"env-file", "log-level", "log-format"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q", flag)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]*cobra.Command)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = sub
	}
	for _, want := range []string{"serve", "migrate", "seed", "sms", "version", "healthcheck"} {
		require.Contains(t, names, want)
	}
}

func TestEnvFileFlag(t *testing.T) {
	path := useSQLite(t)
	envFile := filepath.Join(t.TempDir(), "glee.env")
	require.NoError(t, writeFile(envFile, "SERVER_BASE_URL=https://glee.example.com\n"))
	t.Setenv("SERVER_BASE_URL", "")
	require.NoError(t, os.Unsetenv("SERVER_BASE_URL"))

	cfg, err := loadConfig(&globalOptions{envFile: envFile, logLevel: "debug"})
	require.NoError(t, err)
	require.Equal(t, path, cfg.Storage.SQLitePath)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "https://glee.example.com", cfg.Server.BaseURL)

	_, err = loadConfig(&globalOptions{envFile: filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
}

func TestMigrateSkipsNonPostgres(t *testing.T) {
	useSQLite(t)
	output, err := execute(t, "migrate", "up")
	require.NoError(t, err)
	require.True(t, strings.Contains(output, "nothing to do"), output)
}
