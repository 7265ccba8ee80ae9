package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error
}

// TaskRepository manages task persistence.
// Implementations must make each Save and Delete atomic per task ID.
type TaskRepository interface {
	// FindMany retrieves tasks matching the filter.
	FindMany(ctx context.Context, filter TaskFilter, opts FindOptions) ([]*Task, error)

	// FindOne retrieves a task by ID. Returns nil if not found.
	FindOne(ctx context.Context, id string) (*Task, error)

	// Count returns the number of tasks matching the filter.
	Count(ctx context.Context, filter TaskFilter) (int, error)

	// AggregateBy groups tasks matching the filter by a field and counts each group.
	// Values with no tasks are absent from the result.
	AggregateBy(ctx context.Context, field TaskField, filter TaskFilter) (map[string]int, error)

	// Insert stores a new task.
	Insert(ctx context.Context, task *Task) error

	// Save replaces an existing task.
	Save(ctx context.Context, task *Task) error

	// Delete removes a task by ID.
	Delete(ctx context.Context, id string) error
}

// TaskFilter specifies criteria for selecting tasks.
// All set fields must match (AND condition); zero values match everything.
// Fields are ordered to minimize memory padding.
type TaskFilter struct {
	DueBefore  *time.Time // Due date strictly before
	DueAfter   *time.Time // Due date at or after
	Status     Status     // Exact status
	StatusNot  Status     // Any status except this one
	Priority   Priority   // Exact priority
	AssignedTo string     // Assignee user ID
}

// And returns a filter requiring both f and other.
// Set fields of other take precedence over those of f.
func (f TaskFilter) And(other TaskFilter) TaskFilter {
	if other.DueBefore != nil {
		f.DueBefore = other.DueBefore
	}
	if other.DueAfter != nil {
		f.DueAfter = other.DueAfter
	}
	if other.Status != "" {
		f.Status = other.Status
	}
	if other.StatusNot != "" {
		f.StatusNot = other.StatusNot
	}
	if other.Priority != "" {
		f.Priority = other.Priority
	}
	if other.AssignedTo != "" {
		f.AssignedTo = other.AssignedTo
	}
	return f
}

// Matches reports whether the task satisfies the filter.
// In-memory repositories use it; query-based ones translate the filter instead.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.StatusNot != "" && t.Status == f.StatusNot {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != "" && !t.IsAssignedTo(f.AssignedTo) {
		return false
	}
	if f.DueBefore != nil && !t.DueDate.Before(*f.DueBefore) {
		return false
	}
	if f.DueAfter != nil && t.DueDate.Before(*f.DueAfter) {
		return false
	}
	return true
}

// FindOptions controls ordering and size of FindMany results.
// Tasks are ordered by creation time, then by ID ascending (see SortTasks).
type FindOptions struct {
	Limit       int  // Maximum number of tasks (0 = no limit)
	NewestFirst bool // Order by creation time descending instead of ascending
}

// TaskField names a task field that can be aggregated.
type TaskField string

const (
	FieldStatus   TaskField = "status"
	FieldPriority TaskField = "priority"
)

// IsValid returns true if the field can be aggregated.
func (f TaskField) IsValid() bool {
	return f == FieldStatus || f == FieldPriority
}

// ValueOf returns the task's value for the field.
func (f TaskField) ValueOf(t *Task) string {
	switch f {
	case FieldStatus:
		return string(t.Status)
	case FieldPriority:
		return string(t.Priority)
	default:
		return ""
	}
}

// UserSummary is the display information of a user.
type UserSummary struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Email          string `json:"email" yaml:"email"`
	Role           Role   `json:"role" yaml:"role"`
	ProfilePicture string `json:"profilePicture,omitempty" yaml:"profile_picture,omitempty"`
}

// Actor returns the actor identity of the user.
func (u UserSummary) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// UserDirectory resolves user IDs to display information.
type UserDirectory interface {
	// Resolve returns summaries for the given IDs in the same order.
	// Unknown IDs are skipped.
	Resolve(ctx context.Context, ids []string) ([]UserSummary, error)

	// List returns every known user.
	List(ctx context.Context) ([]UserSummary, error)
}

// Logger records operational events.
// An empty taskID logs at global scope.
type Logger interface {
	Info(taskID, category, msg string)
	Debug(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// ConfigLoader loads configuration.
type ConfigLoader interface {
	// Load returns the effective configuration (defaults <- file <- environment).
	Load() (*Config, error)
}

// IDGenerator generates task IDs.
type IDGenerator interface {
	NewID() string
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
