// Package cli holds the timetracker command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timetrack/backend/libs/logging"
	"timetrack/backend/services/timetracker-service/internal/app"
	"timetrack/backend/services/timetracker-service/internal/config"
)

type options struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand builds the timetracker command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "timetracker",
		Short:         "Track time spent on projects",
		Long:          "Track timed work sessions against projects and accumulate hours and estimated cost.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML config (defaults to $CONFIG_FILE)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newProjectCommand(opts),
		newSessionCommand(opts),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// withApp builds the application for one-shot commands. Their logs stay
// quiet so command output is readable.
func withApp(ctx context.Context, opts *options, fn func(*app.App) error) error {
	logger, err := logging.NewLogger("warn")
	if err != nil {
		return err
	}
	defer logger.Sync() // best-effort flush

	cfg := *opts.cfg
	cfg.Database.ResetOnStart = false
	application, err := app.New(ctx, &cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer application.Close()
	return fn(application)
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewLogger(opts.cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync() // best-effort flush

			application, err := app.New(cmd.Context(), opts.cfg, logger)
			if err != nil {
				logger.Error("failed to initialize application", zap.Error(err))
				return err
			}
			defer application.Close()

			return application.Run(cmd.Context())
		},
	}
}

func newMigrateCommand(opts *options) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  "Create missing tables and indexes. With --reset, drop every table first; all data is lost.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if reset {
				if err := store.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Database reset.")
				return nil
			}
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop all tables before creating them")
	return cmd
}
