package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// SetStatusInput contains the parameters for changing a task's status.
type SetStatusInput struct {
	Actor  domain.Actor  // Acting user
	TaskID string        // Task ID
	Status domain.Status // New status (required)
}

// SetStatusOutput contains the result of changing a task's status.
type SetStatusOutput struct {
	Task *domain.Task // The updated task
}

// SetStatus is the use case for setting a task's status directly.
// Fields are ordered to minimize memory padding.
type SetStatus struct {
	tasks  domain.TaskRepository
	policy domain.AccessPolicy
	clock  domain.Clock
	logger domain.Logger
}

// NewSetStatus creates a new SetStatus use case.
func NewSetStatus(tasks domain.TaskRepository, policy domain.AccessPolicy, clock domain.Clock, logger domain.Logger) *SetStatus {
	return &SetStatus{
		tasks:  tasks,
		policy: policy,
		clock:  clock,
		logger: logger,
	}
}

// Execute sets the status. Setting completed also completes every checklist
// item and sets progress to 100. Other statuses leave checklist and progress as they are.
func (uc *SetStatus) Execute(ctx context.Context, in SetStatusInput) (*SetStatusOutput, error) {
	if in.Status == "" {
		return nil, domain.ErrStatusRequired
	}
	if !in.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireMutate(uc.policy, in.Actor, task); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Status = in.Status
	if in.Status == domain.StatusCompleted {
		task.Checklist = domain.ForceComplete(task.Checklist)
		task.Progress = 100
	}
	task.UpdatedAt = uc.clock.Now()

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, shared.RepositoryError("save task", err)
	}

	uc.logger.Info(task.ID, "status", fmt.Sprintf("%s -> %s by %s", oldStatus, task.Status, in.Actor.ID))

	return &SetStatusOutput{Task: task}, nil
}
