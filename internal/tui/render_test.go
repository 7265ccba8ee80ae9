package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/taskdeck/internal/domain"
)

func testSummary() domain.Summary {
	return domain.Summary{
		Total:   4,
		Overdue: 1,
		StatusCounts: map[domain.Status]int{
			domain.StatusPending:    2,
			domain.StatusInProgress: 1,
			domain.StatusCompleted:  1,
		},
		PriorityCounts: map[domain.Priority]int{
			domain.PriorityLow:    1,
			domain.PriorityMedium: 1,
			domain.PriorityHigh:   2,
		},
		Recent: []domain.RecentTask{
			{ID: "t4", Title: "Prepare launch checklist", Status: domain.StatusPending, Priority: domain.PriorityHigh, DueDate: testNow.Add(-time.Hour)},
			{ID: "t3", Title: "Review contract", Status: domain.StatusCompleted, Priority: domain.PriorityLow, DueDate: testNow.Add(time.Hour)},
		},
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(DefaultStyles(), domain.GlobalScope(), testSummary(), testNow, 100)

	for _, want := range []string{
		"global",
		"Total",
		"Overdue",
		"Task distribution",
		"In Progress",
		"Priority levels",
		"High",
		"Recent tasks",
		"Prepare launch checklist",
		"due 2026-03-01",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	out := RenderSummary(DefaultStyles(), domain.UserScope("u1"), domain.Summary{}, testNow, 0)

	assert.Contains(t, out, "user:u1")
	assert.Contains(t, out, "No tasks")
}

func TestRenderRecent_TruncatesTitle(t *testing.T) {
	task := domain.RecentTask{
		Title:    strings.Repeat("very long title ", 10),
		Status:   domain.StatusPending,
		Priority: domain.PriorityLow,
		DueDate:  testNow,
	}

	out := renderRecent(DefaultStyles(), task, testNow, 40)

	assert.Contains(t, out, "…")
	assert.NotContains(t, out, task.Title)
}

func TestRenderBar(t *testing.T) {
	styles := Styles{}

	tests := []struct {
		name   string
		count  int
		total  int
		filled int
	}{
		{name: "empty total", count: 0, total: 0, filled: 0},
		{name: "half", count: 2, total: 4, filled: barWidth / 2},
		{name: "full", count: 3, total: 3, filled: barWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderBar(styles, "Label", tt.count, tt.total, styles.StatusPending)

			assert.Equal(t, tt.filled, strings.Count(out, "█"))
			assert.Equal(t, barWidth-tt.filled, strings.Count(out, "░"))
		})
	}
}

func TestRenderWorkloads(t *testing.T) {
	assert.Empty(t, renderWorkloads(DefaultStyles(), nil))

	out := renderWorkloads(DefaultStyles(), []domain.Workload{
		{User: domain.UserSummary{ID: "u1", Name: "Alice"}, Pending: 1, InProgress: 2, Completed: 3, Total: 6},
	})

	assert.Contains(t, out, "Workload")
	assert.Contains(t, out, "Alice")
}

func TestStyles_StatusStyle(t *testing.T) {
	styles := DefaultStyles()

	for _, status := range domain.AllStatuses() {
		t.Run(string(status), func(t *testing.T) {
			rendered := styles.StatusStyle(status).Render(status.Display())
			assert.NotEmpty(t, rendered)
		})
	}

	// Unknown values use the default style without panicking
	_ = styles.StatusStyle(domain.Status("unknown")).Render("unknown")
	_ = styles.PriorityStyle(domain.Priority("unknown")).Render("unknown")
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status domain.Status
		want   string
	}{
		{domain.StatusPending, "○"},
		{domain.StatusInProgress, "◐"},
		{domain.StatusCompleted, "●"},
		{domain.Status("unknown"), "?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusIcon(tt.status))
		})
	}
}
