// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// CreateTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	DueDate     *time.Time             // Due date (optional, defaults to now)
	Actor       domain.Actor           // Acting user
	Title       string                 // Task title (required)
	Description string                 // Task description (required)
	Priority    domain.Priority        // Priority (required)
	Attachments []string               // Attachment references (optional)
	Checklist   []domain.ChecklistItem // Initial checklist (optional)
	AssignedTo  domain.Assignment      // Assignees (required, must be a list)
}

// CreateTaskOutput contains the result of creating a task.
type CreateTaskOutput struct {
	Task *domain.Task // The created task
}

// CreateTask is the use case for creating a new task.
// Fields are ordered to minimize memory padding.
type CreateTask struct {
	tasks  domain.TaskRepository
	policy domain.AccessPolicy
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(tasks domain.TaskRepository, policy domain.AccessPolicy, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *CreateTask {
	return &CreateTask{
		tasks:  tasks,
		policy: policy,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new task and returns it.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	if err := domain.RequireAdmin(uc.policy, in.Actor); err != nil {
		return nil, err
	}

	// Validate input
	if !in.AssignedTo.Present {
		return nil, domain.ErrAssigneesRequired
	}
	if err := in.AssignedTo.Validate(); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if in.Description == "" {
		return nil, domain.ErrEmptyDescription
	}
	if in.Priority == "" {
		return nil, domain.ErrPriorityRequired
	}
	if !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}
	eval, err := domain.Evaluate(in.Checklist)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	dueDate := now
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}

	task := &domain.Task{
		ID:          uc.ids.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     dueDate,
		AssignedTo:  domain.UniqueIDs(in.AssignedTo.IDs),
		CreatedBy:   in.Actor.ID,
		Attachments: append([]string{}, in.Attachments...),
		Checklist:   append([]domain.ChecklistItem{}, in.Checklist...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.ApplyEvaluation(eval)

	if err := uc.tasks.Insert(ctx, task); err != nil {
		return nil, shared.RepositoryError("insert task", err)
	}

	uc.logger.Info(task.ID, "task", fmt.Sprintf("created by %s: %q", in.Actor.ID, task.Title))

	return &CreateTaskOutput{Task: task}, nil
}
