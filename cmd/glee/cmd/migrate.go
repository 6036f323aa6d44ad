package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/jobs"
	"github.com/Togather-Foundation/glee/internal/storage/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long: `Apply or roll back schema migrations.

Only the postgres backend has versioned migrations. The sqlite backend applies
its schema when the database is opened and firestore is schemaless.`,
	}

	var steps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations, including the job queue tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := postgresConfig(cmd, global)
			if err != nil || !ok {
				return err
			}
			if err := postgres.MigrateUp(cfg.Storage.DatabaseURL, cfg.Storage.MigrationsPath); err != nil {
				return err
			}
			if err := migrateJobs(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := postgresConfig(cmd, global)
			if err != nil || !ok {
				return err
			}
			if err := postgres.MigrateDown(cfg.Storage.DatabaseURL, cfg.Storage.MigrationsPath, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := postgresConfig(cmd, global)
			if err != nil || !ok {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(cfg.Storage.DatabaseURL, cfg.Storage.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

// postgresConfig loads configuration and reports whether the configured
// backend has migrations to manage.
func postgresConfig(cmd *cobra.Command, global *globalOptions) (config.Config, bool, error) {
	cfg, err := loadConfig(global)
	if err != nil {
		return config.Config{}, false, fmt.Errorf("config error: %w", err)
	}
	if cfg.Storage.Backend != config.BackendPostgres {
		fmt.Fprintf(cmd.OutOrStdout(), "backend %s has no versioned migrations; nothing to do\n", cfg.Storage.Backend)
		return cfg, false, nil
	}
	return cfg, true, nil
}

func migrateJobs(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL, 2)
	if err != nil {
		return err
	}
	defer pool.Close()
	return jobs.MigrateUp(ctx, pool)
}
