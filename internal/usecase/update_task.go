package usecase

import (
	"context"
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// UpdateTaskInput contains the parameters for patching a task.
// Empty strings, nil slices and nil pointers leave the stored value unchanged,
// so a field cannot be cleared through a patch.
// Fields are ordered to minimize memory padding.
type UpdateTaskInput struct {
	DueDate     *time.Time             // New due date (optional)
	Actor       domain.Actor           // Acting user
	TaskID      string                 // Task ID to update
	Title       string                 // New title (optional)
	Description string                 // New description (optional)
	Priority    domain.Priority        // New priority (optional)
	Attachments []string               // New attachments (optional)
	Checklist   []domain.ChecklistItem // New checklist (optional, re-evaluated)
	AssignedTo  domain.Assignment      // New assignees (optional, must be a list)
}

// UpdateTaskOutput contains the result of updating a task.
type UpdateTaskOutput struct {
	Task *domain.Task // The updated task
}

// UpdateTask is the use case for patching a task's descriptive fields.
// Fields are ordered to minimize memory padding.
type UpdateTask struct {
	tasks  domain.TaskRepository
	policy domain.AccessPolicy
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(tasks domain.TaskRepository, policy domain.AccessPolicy, clock domain.Clock, logger domain.Logger) *UpdateTask {
	return &UpdateTask{
		tasks:  tasks,
		policy: policy,
		clock:  clock,
		logger: logger,
	}
}

// Execute applies the patch and returns the updated task.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	if err := domain.RequireAdmin(uc.policy, in.Actor); err != nil {
		return nil, err
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	// Validate the whole patch before touching the task
	if err := in.AssignedTo.Validate(); err != nil {
		return nil, err
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, domain.ErrInvalidPriority
	}
	var eval domain.Evaluation
	if in.Checklist != nil {
		if eval, err = domain.Evaluate(in.Checklist); err != nil {
			return nil, err
		}
	}

	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.AssignedTo.Present {
		task.AssignedTo = domain.UniqueIDs(in.AssignedTo.IDs)
	}
	if in.Attachments != nil {
		task.Attachments = append([]string{}, in.Attachments...)
	}
	if in.Checklist != nil {
		task.Checklist = append([]domain.ChecklistItem{}, in.Checklist...)
		task.ApplyEvaluation(eval)
	}
	task.UpdatedAt = uc.clock.Now()

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, shared.RepositoryError("save task", err)
	}

	uc.logger.Info(task.ID, "task", "updated by "+in.Actor.ID)

	return &UpdateTaskOutput{Task: task}, nil
}
