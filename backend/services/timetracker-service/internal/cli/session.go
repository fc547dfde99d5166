package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"timetrack/backend/services/timetracker-service/internal/app"
	"timetrack/backend/services/timetracker-service/internal/service"
)

func newSessionCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start and end work sessions",
	}
	cmd.AddCommand(newSessionStartCommand(opts), newSessionEndCommand(opts))
	return cmd
}

func parseProjectID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project ID '%s'", raw)
	}
	return id, nil
}

func newSessionStartCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start [project-id]",
		Short: "Start a session for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				res, err := a.Service().StartSession(cmd.Context(), service.StartSessionInput{ProjectID: id})
				if err != nil {
					return err
				}
				if !res.OK() {
					return errors.New(res.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Started session #%d for %s at %s\n",
					res.Session.ID, res.Project.Name, res.Session.StartTime.Format("15:04:05 MST"))
				return nil
			})
		},
	}
}

func newSessionEndCommand(opts *options) *cobra.Command {
	var details string
	cmd := &cobra.Command{
		Use:   "end [project-id]",
		Short: "End the active session for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			input := service.EndSessionInput{ProjectID: id}
			if cmd.Flags().Changed("details") {
				input.WorkDetails = &details
			}
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				res, err := a.Service().EndSession(cmd.Context(), input)
				if err != nil {
					return err
				}
				if !res.OK() {
					return errors.New(res.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %ds on %s. Total %.2fh, estimated cost %.2f\n",
					res.Session.DurationSeconds, res.Project.Name, res.Project.TotalHours, res.Project.EstimatedCost)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&details, "details", "d", "", "what was worked on")
	return cmd
}
