// Package cli provides the command-line interface for taskdeck.
package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/tui"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupTask   = "task"
	groupReport = "report"
)

// EnvUser names the environment variable holding the default acting user.
const EnvUser = "TASKDECK_USER"

var errNoActor = errors.New("no acting user: pass --as <user-id> or set " + EnvUser)

// launchTUIFunc launches the live dashboard, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for taskdeck.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskdeck",
		Short: "Task tracking with checklists and dashboards",
		Long: `taskdeck tracks tasks assigned to team members.

Each task carries a checklist; completing checklist items drives the
task's progress and status (pending, in-progress, completed). Admins
create, edit and delete tasks and see every task; members see the tasks
assigned to them and update their status and checklist.

Commands run on behalf of a user from the user directory, selected with
--as or the TASKDECK_USER environment variable.

Running taskdeck without a command opens the live dashboard.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "init" {
				return nil
			}

			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				return nil
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}
			return launchTUIFunc(c, actor, defaultScope(actor))
		},
	}

	root.PersistentFlags().String("as", "", "Acting user ID (default $"+EnvUser+")")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupReport, Title: "Reports:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupSetup

	tokenCmd := newTokenCommand(c)
	tokenCmd.GroupID = groupSetup

	// Task management commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupTask

	checklistCmd := newChecklistCommand(c)
	checklistCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	// Reports
	dashboardCmd := newDashboardCommand(c)
	dashboardCmd.GroupID = groupReport

	workloadCmd := newWorkloadCommand(c)
	workloadCmd.GroupID = groupReport

	root.AddCommand(
		initCmd,
		configCmd,
		serveCmd,
		tokenCmd,
		newCmd,
		listCmd,
		showCmd,
		editCmd,
		statusCmd,
		checklistCmd,
		rmCmd,
		dashboardCmd,
		workloadCmd,
	)

	return root
}

// resolveActor looks up the user named by --as (or $TASKDECK_USER).
func resolveActor(cmd *cobra.Command, c *app.Container) (domain.Actor, error) {
	id, _ := cmd.Flags().GetString("as")
	if id == "" {
		id = os.Getenv(EnvUser)
	}
	if id == "" {
		return domain.Actor{}, errNoActor
	}
	return c.ResolveActor(cmd.Context(), id)
}

// defaultScope is the global scope for admins and the actor's own scope for members.
func defaultScope(actor domain.Actor) domain.Scope {
	if actor.Role == domain.RoleAdmin {
		return domain.GlobalScope()
	}
	return domain.UserScope(actor.ID)
}

// launchTUI runs the live dashboard until the user quits.
func launchTUI(c *app.Container, actor domain.Actor, scope domain.Scope) error {
	model := tui.NewDashboard(c, actor, scope)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
