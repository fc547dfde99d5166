package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"timetrack/backend/services/timetracker-service/internal/app"
	"timetrack/backend/services/timetracker-service/internal/service"
)

func newProjectCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(newProjectCreateCommand(opts), newProjectListCommand(opts))
	return cmd
}

func newProjectCreateCommand(opts *options) *cobra.Command {
	var name, projectType, rate string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				res, err := a.Service().CreateProject(cmd.Context(), service.CreateProjectInput{
					Name:       name,
					Type:       projectType,
					HourlyRate: rate,
				})
				if err != nil {
					return err
				}
				if !res.OK() {
					return errors.New(res.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project #%d: %s\n", res.Project.ID, res.Project.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "project name")
	cmd.Flags().StringVarP(&projectType, "type", "t", "", "project type")
	cmd.Flags().StringVarP(&rate, "rate", "r", "0", "hourly rate")
	return cmd
}

func newProjectListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects with their totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				projects, err := a.Service().ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects found. Use 'timetracker project create' to add one.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tRATE\tHOURS\tCOST")
				for _, p := range projects {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
						p.ID, truncate(p.Name, 32), truncate(p.Type, 16), p.HourlyRate, p.TotalHours, p.EstimatedCost)
				}
				return tw.Flush()
			})
		},
	}
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
