// Package domain contains core business entities and interfaces.
package domain

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"time"
)

// Task represents a trackable work item.
// Fields are ordered to minimize memory padding.
type Task struct {
	DueDate     time.Time       `json:"dueDate"`       // Due date (defaults to creation time)
	CreatedAt   time.Time       `json:"createdAt"`     // Creation time
	UpdatedAt   time.Time       `json:"updatedAt"`     // Last write time
	ID          string          `json:"id"`            // Opaque unique ID
	Title       string          `json:"title"`         // Title (required)
	Description string          `json:"description"`   // Description (required)
	CreatedBy   string          `json:"createdBy"`     // Creator user ID (immutable)
	Priority    Priority        `json:"priority"`      // low, medium or high
	Status      Status          `json:"status"`        // Derived from the checklist, see Evaluate
	AssignedTo  []string        `json:"assignedTo"`    // Assignee user IDs (set semantics)
	Attachments []string        `json:"attachments"`   // Attachment references
	Checklist   []ChecklistItem `json:"todoChecklist"` // Ordered checklist
	Progress    int             `json:"progress"`      // 0-100
}

// ChecklistItem is a titled boolean sub-step of a task.
type ChecklistItem struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// IsAssignedTo returns true if the user is one of the task's assignees.
func (t *Task) IsAssignedTo(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(t.AssignedTo, userID)
}

// CompletedTodoCount returns the number of completed checklist items.
func (t *Task) CompletedTodoCount() int {
	n := 0
	for _, item := range t.Checklist {
		if item.Completed {
			n++
		}
	}
	return n
}

// IsOverdue returns true if the task is past due and not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.AssignedTo = slices.Clone(t.AssignedTo)
	c.Attachments = slices.Clone(t.Attachments)
	c.Checklist = slices.Clone(t.Checklist)
	return &c
}

// ApplyEvaluation stores the derived progress and status on the task.
func (t *Task) ApplyEvaluation(e Evaluation) {
	t.Progress = e.Progress
	t.Status = e.Status
}

// SortTasks orders tasks by creation time, then by ID ascending for ties.
// With newestFirst the creation time order is reversed.
func SortTasks(tasks []*Task, newestFirst bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// UniqueIDs removes empty and duplicate IDs, keeping first occurrences in order.
// The result is never nil.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Assignment is an assignedTo value as supplied by a caller.
// The zero value means the value was not supplied at all.
type Assignment struct {
	IDs     []string
	Present bool // A value was supplied
	NotList bool // The supplied value was not a list
}

// AssignTo returns an Assignment holding the given user IDs.
// Calling it with no IDs yields an explicit empty list (unassigned).
func AssignTo(ids ...string) Assignment {
	if ids == nil {
		ids = []string{}
	}
	return Assignment{IDs: ids, Present: true}
}

// UnmarshalJSON records whether the raw value was a list.
// A JSON null is treated as not supplied.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*a = Assignment{}
		return nil
	}
	if len(raw) == 0 || raw[0] != '[' {
		*a = Assignment{Present: true, NotList: true}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*a = AssignTo(ids...)
	return nil
}

// MarshalJSON encodes the assignment as a plain list.
func (a Assignment) MarshalJSON() ([]byte, error) {
	if !a.Present {
		return []byte("null"), nil
	}
	return json.Marshal(a.IDs)
}

// Validate returns ErrAssigneesNotList if a non-list value was supplied.
func (a Assignment) Validate() error {
	if a.Present && a.NotList {
		return ErrAssigneesNotList
	}
	return nil
}
