package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/runoshun/taskdeck/internal/domain"
)

const (
	barWidth     = 24
	defaultWidth = 80
)

// RenderSummary renders dashboard statistics. A width of 0 uses the default width.
func RenderSummary(styles Styles, scope domain.Scope, s domain.Summary, now time.Time, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder

	header := styles.HeaderText.Render("taskdeck") + " " +
		styles.TaskMeta.Render(fmt.Sprintf("%s · %s", scope, now.Format("2006-01-02 15:04")))
	b.WriteString(styles.Header.Render(header))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard(styles, "Total", s.Total, styles.CardValue),
		renderCard(styles, "Pending", s.StatusCounts[domain.StatusPending], styles.CardValue),
		renderCard(styles, "Completed", s.StatusCounts[domain.StatusCompleted], styles.CardValue),
		renderCard(styles, "Overdue", s.Overdue, overdueStyle(styles, s.Overdue)),
	))
	b.WriteString("\n")

	b.WriteString(styles.Section.Render("Task distribution"))
	b.WriteString("\n")
	for _, status := range domain.AllStatuses() {
		b.WriteString(renderBar(styles, status.Display(), s.StatusCounts[status], s.Total, styles.StatusStyle(status)))
		b.WriteString("\n")
	}

	b.WriteString(styles.Section.Render("Priority levels"))
	b.WriteString("\n")
	for _, p := range domain.AllPriorities() {
		b.WriteString(renderBar(styles, p.Display(), s.PriorityCounts[p], s.Total, styles.PriorityStyle(p)))
		b.WriteString("\n")
	}

	b.WriteString(styles.Section.Render("Recent tasks"))
	b.WriteString("\n")
	if len(s.Recent) == 0 {
		b.WriteString(styles.TaskMeta.Render("  No tasks"))
		b.WriteString("\n")
	}
	for _, t := range s.Recent {
		b.WriteString(renderRecent(styles, t, now, width))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderCard(styles Styles, label string, value int, valueStyle lipgloss.Style) string {
	return styles.Card.Render(styles.CardLabel.Render(label) + "\n" + valueStyle.Render(strconv.Itoa(value)))
}

func overdueStyle(styles Styles, n int) lipgloss.Style {
	if n > 0 {
		return styles.Overdue
	}
	return styles.CardValue
}

// renderBar renders a labelled horizontal bar proportional to count/total.
func renderBar(styles Styles, label string, count, total int, style lipgloss.Style) string {
	filled := 0
	if total > 0 {
		filled = count * barWidth / total
	}
	bar := style.Render(strings.Repeat("█", filled)) + styles.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("  %s %s %d", styles.BarLabel.Render(label), bar, count)
}

func renderRecent(styles Styles, t domain.RecentTask, now time.Time, width int) string {
	icon := styles.StatusStyle(t.Status).Render(StatusIcon(t.Status))
	due := "due " + t.DueDate.Format(time.DateOnly)
	dueStyle := styles.TaskMeta
	if t.DueDate.Before(now) && t.Status != domain.StatusCompleted {
		dueStyle = styles.Overdue
	}
	meta := fmt.Sprintf("%s · %s", styles.PriorityStyle(t.Priority).Render(string(t.Priority)), dueStyle.Render(due))

	// "  ● " prefix, a space before meta
	titleWidth := width - 4 - lipgloss.Width(meta) - 1
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncate.StringWithTail(t.Title, uint(titleWidth), "…")
	return fmt.Sprintf("  %s %s %s", icon, styles.TaskTitle.Render(title), meta)
}

// renderWorkloads renders per-member counts as an aligned table.
func renderWorkloads(styles Styles, workloads []domain.Workload) string {
	if len(workloads) == 0 {
		return ""
	}
	nameWidth := len("Member")
	for _, w := range workloads {
		nameWidth = max(nameWidth, lipgloss.Width(w.User.Name))
	}

	var b strings.Builder
	b.WriteString(styles.Section.Render("Workload"))
	b.WriteString("\n")
	b.WriteString(styles.TaskMeta.Render(fmt.Sprintf("  %-*s %8s %12s %10s %6s", nameWidth, "Member", "Pending", "In Progress", "Completed", "Total")))
	b.WriteString("\n")
	for _, w := range workloads {
		fmt.Fprintf(&b, "  %-*s %8d %12d %10d %6d\n", nameWidth, w.User.Name, w.Pending, w.InProgress, w.Completed, w.Total)
	}
	return strings.TrimRight(b.String(), "\n")
}
