package usecase

import (
	"context"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Actor  domain.Actor // Acting user
	TaskID string       // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks  domain.TaskRepository
	policy domain.AccessPolicy
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, policy domain.AccessPolicy, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		tasks:  tasks,
		policy: policy,
		logger: logger,
	}
}

// Execute deletes a task with the given ID. There is no tombstone.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	if err := domain.RequireAdmin(uc.policy, in.Actor); err != nil {
		return nil, err
	}

	// Verify task exists
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.Delete(ctx, in.TaskID); err != nil {
		return nil, shared.RepositoryError("delete task", err)
	}

	uc.logger.Info(task.ID, "task", "deleted by "+in.Actor.ID)

	return &DeleteTaskOutput{Task: task}, nil
}
