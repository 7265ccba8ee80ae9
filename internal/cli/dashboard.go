package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/tui"
	"github.com/runoshun/taskdeck/internal/usecase"
)

// newDashboardCommand creates the dashboard command.
func newDashboardCommand(c *app.Container) *cobra.Command {
	var opts struct {
		User   string
		Global bool
		Watch  bool
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show task statistics",
		Long: `Show task counts by status and priority, the overdue count and the
most recently created tasks.

Admins see global statistics by default and may pick any user with
--user. Members see statistics for the tasks assigned to them.

Examples:
  # Statistics for the acting user's default scope
  taskdeck --as admin-1 dashboard

  # Statistics for one user
  taskdeck --as admin-1 dashboard --user u1

  # Live dashboard that refreshes periodically
  taskdeck --as u1 dashboard --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Global && opts.User != "" {
				return fmt.Errorf("cannot use --user together with --global")
			}

			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			scope := defaultScope(actor)
			switch {
			case opts.Global:
				scope = domain.GlobalScope()
			case opts.User != "":
				scope = domain.UserScope(opts.User)
			}

			if opts.Watch {
				return launchTUIFunc(c, actor, scope)
			}

			out, err := c.SummarizeUseCase().Execute(cmd.Context(), usecase.SummarizeInput{
				Actor: actor,
				Scope: scope,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Summary)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(tui.DefaultStyles(), scope, out.Summary, out.Now, 0))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "Restrict to tasks assigned to this user")
	cmd.Flags().BoolVar(&opts.Global, "global", false, "Cover all tasks (admin only)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Open the live dashboard")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// newWorkloadCommand creates the workload command.
func newWorkloadCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Show task counts per member",
		Long: `Show, for every member in the user directory, the number of pending,
in-progress and completed tasks assigned to them (admin only).

Output columns:
  USER, NAME, PENDING, IN-PROGRESS, COMPLETED, TOTAL

Examples:
  taskdeck --as admin-1 workload`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			out, err := c.ListWorkloadsUseCase().Execute(cmd.Context(), usecase.ListWorkloadsInput{
				Actor: actor,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Workloads)
			}
			printWorkloads(cmd.OutOrStdout(), out.Workloads)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

func printWorkloads(w io.Writer, workloads []domain.Workload) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "USER\tNAME\tPENDING\tIN-PROGRESS\tCOMPLETED\tTOTAL")
	for _, wl := range workloads {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			wl.User.ID, wl.User.Name, wl.Pending, wl.InProgress, wl.Completed, wl.Total)
	}
}
