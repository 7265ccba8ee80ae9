package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase"
)

// dateLayout is the short due date format accepted and printed by the CLI.
const dateLayout = time.DateOnly

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Due         string
		Assign      []string
		Attach      []string
		Items       []string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task (admin only).

The task's status and progress are derived from its checklist: with no
items or none completed it is pending, with some completed it is
in-progress and with all completed it is completed.

--assign is required; pass --assign "" to create an unassigned task.
Checklist items use a "[x] " prefix for completed items.

Examples:
  # Create a task assigned to two users
  taskdeck --as admin-1 new --title "Quarterly report" --body "Collect numbers" \
    --priority high --due 2026-04-01 --assign u1 --assign u2

  # Create a task with a checklist
  taskdeck --as admin-1 new --title "Release" --body "Ship v2" --priority medium \
    --assign u1 --item "[x] Tag release" --item "Publish notes"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			due, err := parseDue(opts.Due)
			if err != nil {
				return err
			}

			input := usecase.CreateTaskInput{
				Actor:       actor,
				Title:       opts.Title,
				Description: opts.Description,
				Priority:    domain.Priority(opts.Priority),
				DueDate:     due,
				Attachments: opts.Attach,
				Checklist:   parseChecklistItems(opts.Items),
			}
			if cmd.Flags().Changed("assign") {
				input.AssignedTo = domain.AssignTo(opts.Assign...)
			}

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description (required)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: low, medium or high (required)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date, YYYY-MM-DD or RFC 3339 (default: now)")
	cmd.Flags().StringArrayVar(&opts.Assign, "assign", nil, "Assignee user ID (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Attach, "attach", nil, "Attachment reference (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, `Checklist item, "[x] " prefix marks it completed (can specify multiple)`)

	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display the tasks visible to the acting user, oldest first.

Admins see every task; members see the tasks assigned to them.
A summary line with counts per status follows the table; the counts
ignore --status.

Output columns:
  ID, STATUS, PRIORITY, PROGRESS, DUE, ASSIGNEES, TITLE

Examples:
  # List all visible tasks
  taskdeck --as u1 list

  # List only pending tasks
  taskdeck --as u1 list --status pending`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Actor:  actor,
				Status: domain.Status(opts.Status),
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printTaskList(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status: pending, in-progress or completed")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskList prints tasks as an aligned table followed by the status summary.
func printTaskList(w io.Writer, out *usecase.ListTasksOutput) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tPROGRESS\tDUE\tASSIGNEES\tTITLE")
	for _, item := range out.Tasks {
		task := item.Task
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d (%d%%)\t%s\t%s\t%s\n",
			task.ID,
			task.Status,
			task.Priority,
			item.CompletedTodoCount, len(task.Checklist), task.Progress,
			task.DueDate.Format(dateLayout),
			formatAssignees(item.Assignees, task.AssignedTo),
			task.Title,
		)
	}
	_ = tw.Flush()

	s := out.Summary
	_, _ = fmt.Fprintf(w, "\nall: %d   pending: %d   in-progress: %d   completed: %d\n",
		s.All, s.Pending, s.InProgress, s.Completed)
}

// formatAssignees prints user names, falling back to IDs for users the
// directory did not resolve.
func formatAssignees(users []domain.UserSummary, ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := names[id]; name != "" {
			parts = append(parts, name)
		} else {
			parts = append(parts, id)
		}
	}
	return strings.Join(parts, ", ")
}

// newShowCommand creates the show command for displaying a task.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

Output includes:
  - Task ID, title and description
  - Status, priority, progress and due date
  - Assignees and attachments
  - Checklist

Examples:
  # Show a task
  taskdeck --as u1 show 6f1c...

  # Output in JSON format
  taskdeck --as u1 show 6f1c... --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			out, err := c.GetTaskUseCase().Execute(cmd.Context(), usecase.GetTaskInput{
				Actor:  actor,
				TaskID: args[0],
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printTaskDetails(cmd.OutOrStdout(), out.Task, out.Assignees)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

func printTaskDetails(w io.Writer, task *domain.Task, assignees []domain.UserSummary) {
	// Header
	_, _ = fmt.Fprintf(w, "# Task %s: %s\n\n", task.ID, task.Title)

	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.Priority.Display())
	_, _ = fmt.Fprintf(w, "Progress: %d%%\n", task.Progress)
	_, _ = fmt.Fprintf(w, "Due: %s\n", task.DueDate.Format(dateLayout))
	_, _ = fmt.Fprintf(w, "Assigned: %s\n", formatAssignees(assignees, task.AssignedTo))
	_, _ = fmt.Fprintf(w, "Created: %s by %s\n", task.CreatedAt.Format(time.RFC3339), task.CreatedBy)
	_, _ = fmt.Fprintf(w, "Updated: %s\n", task.UpdatedAt.Format(time.RFC3339))

	if len(task.Attachments) > 0 {
		_, _ = fmt.Fprintln(w, "\nAttachments:")
		for _, a := range task.Attachments {
			_, _ = fmt.Fprintf(w, "  %s\n", a)
		}
	}

	if len(task.Checklist) > 0 {
		_, _ = fmt.Fprintf(w, "\nChecklist (%d/%d):\n", task.CompletedTodoCount(), len(task.Checklist))
		for _, item := range task.Checklist {
			_, _ = fmt.Fprintf(w, "  %s\n", formatChecklistItem(item))
		}
	}
}

// newEditCommand creates the edit command for updating task fields.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Due         string
		Assign      []string
		Attach      []string
		Items       []string
		Editor      bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit task fields (admin only).

Only the given flags are changed; empty values leave a field unchanged.
Replacing the checklist re-derives the task's progress and status.
With --editor, the description is opened in $EDITOR.

Examples:
  # Rename a task
  taskdeck --as admin-1 edit 6f1c... --title "New title"

  # Reassign a task
  taskdeck --as admin-1 edit 6f1c... --assign u2

  # Edit the description in your editor
  taskdeck --as admin-1 edit 6f1c... --editor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			due, err := parseDue(opts.Due)
			if err != nil {
				return err
			}

			input := usecase.UpdateTaskInput{
				Actor:       actor,
				TaskID:      args[0],
				Title:       opts.Title,
				Description: opts.Description,
				Priority:    domain.Priority(opts.Priority),
				DueDate:     due,
				Attachments: opts.Attach,
				Checklist:   parseChecklistItems(opts.Items),
			}
			if cmd.Flags().Changed("assign") {
				input.AssignedTo = domain.AssignTo(opts.Assign...)
			}

			if opts.Editor {
				desc, err := editDescription(cmd, c, actor, args[0])
				if err != nil {
					return err
				}
				input.Description = desc
			}

			out, err := c.UpdateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority: low, medium or high")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date, YYYY-MM-DD or RFC 3339")
	cmd.Flags().StringArrayVar(&opts.Assign, "assign", nil, "Replace assignees (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Attach, "attach", nil, "Replace attachments (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, `Replace checklist, "[x] " prefix marks an item completed (can specify multiple)`)
	cmd.Flags().BoolVar(&opts.Editor, "editor", false, "Edit the description in $EDITOR")

	return cmd
}

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status",
		Long: `Set a task's status directly.

Setting "completed" marks every checklist item completed and sets progress
to 100%. Other statuses leave the checklist and progress unchanged.

Assignees and admins may change a task's status.

Examples:
  taskdeck --as u1 status 6f1c... in-progress
  taskdeck --as u1 status 6f1c... completed`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			out, err := c.SetStatusUseCase().Execute(cmd.Context(), usecase.SetStatusInput{
				Actor:  actor,
				TaskID: args[0],
				Status: domain.Status(args[1]),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is %s (%d%%)\n", out.Task.ID, out.Task.Status, out.Task.Progress)
			return nil
		},
	}

	return cmd
}

// newChecklistCommand creates the checklist command.
func newChecklistCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Items []string
		Clear bool
	}

	cmd := &cobra.Command{
		Use:   "checklist <id>",
		Short: "Replace a task's checklist",
		Long: `Replace a task's checklist and re-derive its progress and status.

Items use a "[x] " prefix for completed items and "[ ] " (or no prefix)
for open ones. Use --clear to remove every item.

Assignees and admins may change a task's checklist.

Examples:
  taskdeck --as u1 checklist 6f1c... --item "[x] Draft" --item "[ ] Review"
  taskdeck --as u1 checklist 6f1c... --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Clear && len(opts.Items) == 0 {
				return fmt.Errorf("either --item or --clear is required")
			}
			if opts.Clear && len(opts.Items) > 0 {
				return fmt.Errorf("cannot use --item together with --clear")
			}

			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			items := parseChecklistItems(opts.Items)
			in := make([]domain.ChecklistItemInput, 0, len(items))
			for _, item := range items {
				in = append(in, domain.NewChecklistItemInput(item.Title, item.Completed))
			}

			out, err := c.SetChecklistUseCase().Execute(cmd.Context(), usecase.SetChecklistInput{
				Actor:     actor,
				TaskID:    args[0],
				Checklist: in,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is %s (%d%%)\n", out.Task.ID, out.Task.Status, out.Task.Progress)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "Checklist item (can specify multiple)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Remove every checklist item")

	return cmd
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task (admin only).

Examples:
  taskdeck --as admin-1 rm 6f1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{
				Actor:  actor,
				TaskID: args[0],
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	return cmd
}

// parseDue parses a due date flag. An empty value means not supplied.
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid due date %q (want YYYY-MM-DD or RFC 3339)", domain.ErrInvalidInput, s)
}

// parseChecklistItems parses "[x] title" style flag values.
// It returns nil when no items are given.
func parseChecklistItems(values []string) []domain.ChecklistItem {
	if len(values) == 0 {
		return nil
	}
	items := make([]domain.ChecklistItem, 0, len(values))
	for _, v := range values {
		items = append(items, parseChecklistItem(v))
	}
	return items
}

func parseChecklistItem(s string) domain.ChecklistItem {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"[x]", "[X]"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return domain.ChecklistItem{Title: strings.TrimSpace(rest), Completed: true}
		}
	}
	if rest, ok := strings.CutPrefix(s, "[ ]"); ok {
		s = strings.TrimSpace(rest)
	}
	return domain.ChecklistItem{Title: s}
}

func formatChecklistItem(item domain.ChecklistItem) string {
	if item.Completed {
		return "[x] " + item.Title
	}
	return "[ ] " + item.Title
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
