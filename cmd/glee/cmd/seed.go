package cmd

import (
	"context"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/app"
	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCommand(global *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample data into empty collections",
		Long: `Load the sample event, meeting and staff directory.

Events and meetings are seeded only when there are no events yet, and staff
only when the staff directory is empty, so running seed twice is harmless.

Examples:
  # Load the built-in sample data
  glee seed

  # Load a custom seed document
  glee seed --file ./committee.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSeed(file)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			result, err := a.Seed(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d event(s), %d meeting(s), %d staff member(s)\n",
				result.Events, result.Meetings, result.Staff)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed document (default: built-in sample data)")
	return cmd
}

func loadSeed(file string) (seed.Document, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.Load(file)
}

// openApp builds the application for one-shot commands. Job workers are not
// started, but a job client is still created on postgres so work can be
// enqueued.
func openApp(ctx context.Context, global *globalOptions) (*app.App, error) {
	cfg, err := loadConfig(global)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	logger := config.NewLogger(cfg.Logging)
	return app.New(ctx, cfg, logger, config.NewSlogLogger(cfg.Logging), buildInfo())
}
