package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Actor  domain.Actor  // Acting user
	Status domain.Status // Status filter (optional)
}

// TaskListItem is a listed task with read-only projections.
type TaskListItem struct {
	Task               *domain.Task
	Assignees          []domain.UserSummary
	CompletedTodoCount int // Completed checklist items
}

// ListTasksOutput contains the tasks visible to the actor.
type ListTasksOutput struct {
	Tasks   []TaskListItem       // Oldest first
	Summary domain.StatusSummary // Counts over the actor's scope, ignoring the status filter
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks  domain.TaskRepository
	users  domain.UserDirectory
	policy domain.AccessPolicy
	logger domain.Logger
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository, users domain.UserDirectory, policy domain.AccessPolicy, logger domain.Logger) *ListTasks {
	return &ListTasks{
		tasks:  tasks,
		users:  users,
		policy: policy,
		logger: logger,
	}
}

// Execute returns the tasks in the actor's scope, optionally filtered by status.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	scope := uc.policy.Scope(in.Actor)

	var (
		tasks   []*domain.Task
		summary domain.StatusSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = uc.tasks.FindMany(gctx, scope.And(domain.TaskFilter{Status: in.Status}), domain.FindOptions{})
		if err != nil {
			return shared.RepositoryError("list tasks", err)
		}
		return nil
	})
	counts := []struct {
		dst    *int
		status domain.Status
	}{
		{&summary.All, ""},
		{&summary.Pending, domain.StatusPending},
		{&summary.InProgress, domain.StatusInProgress},
		{&summary.Completed, domain.StatusCompleted},
	}
	for _, c := range counts {
		c := c
		g.Go(func() error {
			n, err := uc.tasks.Count(gctx, scope.And(domain.TaskFilter{Status: c.status}))
			if err != nil {
				return shared.RepositoryError("count tasks", err)
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ids []string
	for _, t := range tasks {
		ids = append(ids, t.AssignedTo...)
	}
	byID := shared.ResolveUsers(ctx, uc.users, uc.logger, "", ids)

	items := make([]TaskListItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, TaskListItem{
			Task:               t,
			Assignees:          shared.PickUsers(byID, t.AssignedTo),
			CompletedTodoCount: t.CompletedTodoCount(),
		})
	}

	return &ListTasksOutput{
		Tasks:   items,
		Summary: summary,
	}, nil
}
