package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// SetChecklistInput contains the parameters for replacing a task's checklist.
type SetChecklistInput struct {
	Actor     domain.Actor                // Acting user
	TaskID    string                      // Task ID
	Checklist []domain.ChecklistItemInput // Replacement checklist as supplied (nil = not supplied)
}

// SetChecklistOutput contains the updated task with its assignees resolved.
type SetChecklistOutput struct {
	Task      *domain.Task
	Assignees []domain.UserSummary
}

// SetChecklist is the use case for replacing a task's checklist.
// Fields are ordered to minimize memory padding.
type SetChecklist struct {
	tasks  domain.TaskRepository
	users  domain.UserDirectory
	policy domain.AccessPolicy
	clock  domain.Clock
	logger domain.Logger
}

// NewSetChecklist creates a new SetChecklist use case.
func NewSetChecklist(tasks domain.TaskRepository, users domain.UserDirectory, policy domain.AccessPolicy, clock domain.Clock, logger domain.Logger) *SetChecklist {
	return &SetChecklist{
		tasks:  tasks,
		users:  users,
		policy: policy,
		clock:  clock,
		logger: logger,
	}
}

// Execute replaces the checklist and recomputes progress and status.
// The checklist shape is checked before the task is looked up.
func (uc *SetChecklist) Execute(ctx context.Context, in SetChecklistInput) (*SetChecklistOutput, error) {
	items, err := domain.ParseChecklist(in.Checklist)
	if err != nil {
		return nil, err
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireMutate(uc.policy, in.Actor, task); err != nil {
		return nil, err
	}

	eval, err := domain.Evaluate(items)
	if err != nil {
		return nil, err
	}
	task.Checklist = items
	task.ApplyEvaluation(eval)
	task.UpdatedAt = uc.clock.Now()

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, shared.RepositoryError("save task", err)
	}

	uc.logger.Info(task.ID, "checklist", fmt.Sprintf("%d/%d done (%d%%) by %s",
		task.CompletedTodoCount(), len(task.Checklist), task.Progress, in.Actor.ID))

	return &SetChecklistOutput{
		Task:      task,
		Assignees: shared.ResolveAssignees(ctx, uc.users, uc.logger, task),
	}, nil
}
