package domain

import (
	"strings"
	"time"
)

// RecentTaskLimit is the number of tasks in a summary's recent list.
const RecentTaskLimit = 10

// Scope selects the task set a summary covers.
// The zero value is the global scope.
type Scope struct {
	UserID string // Assignee to restrict to (empty = all tasks)
}

// GlobalScope returns the scope covering all tasks.
func GlobalScope() Scope {
	return Scope{}
}

// UserScope returns the scope covering tasks assigned to a user.
func UserScope(userID string) Scope {
	return Scope{UserID: userID}
}

// IsGlobal returns true for the global scope.
func (s Scope) IsGlobal() bool {
	return s.UserID == ""
}

// Filter returns the repository filter for the scope.
func (s Scope) Filter() TaskFilter {
	return TaskFilter{AssignedTo: s.UserID}
}

// String returns "global" or "user:<id>".
func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "user:" + s.UserID
}

// ParseScope parses "global" or "user:<id>".
func ParseScope(s string) (Scope, error) {
	if s == "global" {
		return GlobalScope(), nil
	}
	if id, ok := strings.CutPrefix(s, "user:"); ok && id != "" {
		return UserScope(id), nil
	}
	return Scope{}, ErrInvalidScope
}

// Summary holds dashboard statistics over a scope.
// Fields are ordered to minimize memory padding.
type Summary struct {
	StatusCounts   map[Status]int   // Every status key is present
	PriorityCounts map[Priority]int // Every priority key is present
	Recent         []RecentTask     // Newest first, at most RecentTaskLimit
	Total          int
	Overdue        int // Due before now and not completed
}

// RecentTask is the projection of a task shown in a summary.
type RecentTask struct {
	DueDate   time.Time `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority"`
}

// NewRecentTask projects a task for a summary.
func NewRecentTask(t *Task) RecentTask {
	return RecentTask{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		Priority:  t.Priority,
		DueDate:   t.DueDate,
		CreatedAt: t.CreatedAt,
	}
}

// StatusSummary holds task counts per status over a task list's scope.
type StatusSummary struct {
	All        int `json:"all"`
	Pending    int `json:"pendingTasks"`
	InProgress int `json:"inProgressTasks"`
	Completed  int `json:"completedTasks"`
}

// Workload holds a member's task counts per status.
type Workload struct {
	User       UserSummary `json:"user"`
	Total      int         `json:"total"`
	Pending    int         `json:"pendingTasks"`
	InProgress int         `json:"inProgressTasks"`
	Completed  int         `json:"completedTasks"`
}
