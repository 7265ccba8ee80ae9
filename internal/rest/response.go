package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase"
)

type messageResponse struct {
	Message string `json:"message"`
}

// taskMessageResponse is returned by mutations.
type taskMessageResponse struct {
	Task    any    `json:"task"`
	Message string `json:"message"`
}

// taskView is a task with its assignees expanded to user summaries.
type taskView struct {
	*domain.Task
	CompletedTodoCount *int                 `json:"completedTodoCount,omitempty"`
	AssignedTo         []domain.UserSummary `json:"assignedTo"`
}

func newTaskView(task *domain.Task, assignees []domain.UserSummary) taskView {
	if assignees == nil {
		assignees = []domain.UserSummary{}
	}
	return taskView{Task: task, AssignedTo: assignees}
}

type listTasksResponse struct {
	Tasks         []taskView           `json:"tasks"`
	StatusSummary domain.StatusSummary `json:"statusSummary"`
}

func newListTasksResponse(out *usecase.ListTasksOutput) listTasksResponse {
	resp := listTasksResponse{
		Tasks:         make([]taskView, 0, len(out.Tasks)),
		StatusSummary: out.Summary,
	}
	for _, item := range out.Tasks {
		view := newTaskView(item.Task, item.Assignees)
		count := item.CompletedTodoCount
		view.CompletedTodoCount = &count
		resp.Tasks = append(resp.Tasks, view)
	}
	return resp
}

type dashboardStatistics struct {
	TotalTasks     int `json:"totalTasks"`
	PendingTasks   int `json:"pendingTasks"`
	CompletedTasks int `json:"completedTasks"`
	OverdueTasks   int `json:"overdueTasks"`
}

type dashboardCharts struct {
	TaskDistribution   map[string]int `json:"taskDistribution"`
	TaskPriorityLevels map[string]int `json:"taskPriorityLevels"`
}

type dashboardResponse struct {
	Charts      dashboardCharts     `json:"charts"`
	RecentTasks []domain.RecentTask `json:"recentTasks"`
	Statistics  dashboardStatistics `json:"statistics"`
}

func newDashboardResponse(s domain.Summary) dashboardResponse {
	distribution := make(map[string]int, len(s.StatusCounts)+1)
	for _, status := range domain.AllStatuses() {
		distribution[string(status)] = s.StatusCounts[status]
	}
	distribution["All"] = s.Total

	levels := make(map[string]int, len(s.PriorityCounts))
	for _, p := range domain.AllPriorities() {
		levels[string(p)] = s.PriorityCounts[p]
	}

	recent := s.Recent
	if recent == nil {
		recent = []domain.RecentTask{}
	}

	return dashboardResponse{
		Statistics: dashboardStatistics{
			TotalTasks:     s.Total,
			PendingTasks:   s.StatusCounts[domain.StatusPending],
			CompletedTasks: s.StatusCounts[domain.StatusCompleted],
			OverdueTasks:   s.Overdue,
		},
		Charts: dashboardCharts{
			TaskDistribution:   distribution,
			TaskPriorityLevels: levels,
		},
		RecentTasks: recent,
	}
}

type workloadResponse struct {
	Workloads []domain.Workload `json:"workloads"`
}

// dueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (midnight UTC).
type dueDate struct {
	time.Time
}

func (d *dueDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("dueDate: invalid date %q", s)
}

// ptr returns the due date, or nil when none was supplied.
func (d *dueDate) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// statusFor maps an error kind to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
