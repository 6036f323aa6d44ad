package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// HealthResponse matches the response from internal/api/handlers/health.go
type HealthResponse struct {
	Status string         `json:"status"`
	Checks map[string]any `json:"checks,omitempty"`
}

func newHealthcheckCommand() *cobra.Command {
	var (
		timeout int
		url     string
	)
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is healthy",
		Long: `Performs a health check by calling the /health endpoint.

This command is used by container HEALTHCHECK probes. It exits with code 0
when the server reports healthy or degraded, non-zero otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				port := os.Getenv("SERVER_PORT")
				if port == "" {
					port = "8080"
				}
				url = fmt.Sprintf("http://localhost:%s/health", port)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeout)*time.Second)
			defer cancel()

			status, err := checkHealth(ctx, url)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", status)
			return nil
		},
	}
	cmd.Flags().IntVar(&timeout, "timeout", 5, "timeout in seconds")
	cmd.Flags().StringVar(&url, "url", "", "health check URL (default: http://localhost:{SERVER_PORT}/health)")
	return cmd
}

func checkHealth(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", fmt.Errorf("parse health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return health.Status, fmt.Errorf("unhealthy: status %d (%s)", resp.StatusCode, health.Status)
	}
	switch health.Status {
	case "healthy", "degraded":
		return health.Status, nil
	default:
		return health.Status, fmt.Errorf("unhealthy: status=%s", health.Status)
	}
}
