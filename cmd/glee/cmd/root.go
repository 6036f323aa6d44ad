package cmd

import (
	"fmt"
	"os"

	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	envFile   string
	logLevel  string
	logFormat string
}

// NewRootCommand builds the glee command tree. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "glee",
		Short: "Glee - social committee portal backend",
		Long: `Glee is the backend for a workplace social committee portal.

It manages:
- Events with budgets, expenses and attendee caps
- Planning meetings and the tasks that come out of them
- The staff directory and SMS notifications over Twilio
- Event templates that schedule recurring events`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.RunE(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (json, console) (default: json)")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newSeedCommand(opts))
	root.AddCommand(newSMSCommand(opts))
	root.AddCommand(newVersionCommand())
	root.AddCommand(newHealthcheckCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(opts *globalOptions) (config.Config, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return config.Config{}, fmt.Errorf("load env file %s: %w", opts.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	return cfg, nil
}
