package usecase

import (
	"context"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// GetTaskInput contains the parameters for reading a task.
type GetTaskInput struct {
	Actor  domain.Actor // Acting user
	TaskID string       // Task ID to read
}

// GetTaskOutput contains the task with its assignees resolved.
type GetTaskOutput struct {
	Task      *domain.Task
	Assignees []domain.UserSummary
}

// GetTask is the use case for reading a single task.
type GetTask struct {
	tasks  domain.TaskRepository
	users  domain.UserDirectory
	policy domain.AccessPolicy
	logger domain.Logger
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(tasks domain.TaskRepository, users domain.UserDirectory, policy domain.AccessPolicy, logger domain.Logger) *GetTask {
	return &GetTask{
		tasks:  tasks,
		users:  users,
		policy: policy,
		logger: logger,
	}
}

// Execute returns the task if the actor may view it.
func (uc *GetTask) Execute(ctx context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireView(uc.policy, in.Actor, task); err != nil {
		return nil, err
	}

	return &GetTaskOutput{
		Task:      task,
		Assignees: shared.ResolveAssignees(ctx, uc.users, uc.logger, task),
	}, nil
}
