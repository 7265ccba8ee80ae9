package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// SummarizeInput contains the parameters for computing dashboard statistics.
type SummarizeInput struct {
	Actor domain.Actor // Acting user
	Scope domain.Scope // Global, or a single assignee
}

// SummarizeOutput contains the statistics.
type SummarizeOutput struct {
	Now     time.Time // Reference time used for the overdue count
	Summary domain.Summary
}

// Summarize is the use case for dashboard statistics.
type Summarize struct {
	tasks  domain.TaskRepository
	policy domain.AccessPolicy
	clock  domain.Clock
}

// NewSummarize creates a new Summarize use case.
func NewSummarize(tasks domain.TaskRepository, policy domain.AccessPolicy, clock domain.Clock) *Summarize {
	return &Summarize{
		tasks:  tasks,
		policy: policy,
		clock:  clock,
	}
}

// Execute computes counts by status and priority, the overdue count and the
// most recently created tasks over the scope.
// The global scope and other users' scopes require an admin.
func (uc *Summarize) Execute(ctx context.Context, in SummarizeInput) (*SummarizeOutput, error) {
	if in.Scope.IsGlobal() || in.Scope.UserID != in.Actor.ID {
		if err := domain.RequireAdmin(uc.policy, in.Actor); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	filter := in.Scope.Filter()

	var (
		total, overdue       int
		byStatus, byPriority map[string]int
		recent               []*domain.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.tasks.Count(gctx, filter)
		if err != nil {
			return shared.RepositoryError("count tasks", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		m, err := uc.tasks.AggregateBy(gctx, domain.FieldStatus, filter)
		if err != nil {
			return shared.RepositoryError("aggregate by status", err)
		}
		byStatus = m
		return nil
	})
	g.Go(func() error {
		m, err := uc.tasks.AggregateBy(gctx, domain.FieldPriority, filter)
		if err != nil {
			return shared.RepositoryError("aggregate by priority", err)
		}
		byPriority = m
		return nil
	})
	g.Go(func() error {
		n, err := uc.tasks.Count(gctx, filter.And(domain.TaskFilter{
			DueBefore: &now,
			StatusNot: domain.StatusCompleted,
		}))
		if err != nil {
			return shared.RepositoryError("count overdue tasks", err)
		}
		overdue = n
		return nil
	})
	g.Go(func() error {
		tasks, err := uc.tasks.FindMany(gctx, filter, domain.FindOptions{
			NewestFirst: true,
			Limit:       domain.RecentTaskLimit,
		})
		if err != nil {
			return shared.RepositoryError("find recent tasks", err)
		}
		recent = tasks
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := domain.Summary{
		Total:          total,
		Overdue:        overdue,
		StatusCounts:   make(map[domain.Status]int, len(domain.AllStatuses())),
		PriorityCounts: make(map[domain.Priority]int, len(domain.AllPriorities())),
		Recent:         make([]domain.RecentTask, 0, len(recent)),
	}
	for _, s := range domain.AllStatuses() {
		summary.StatusCounts[s] = byStatus[string(s)]
	}
	for _, p := range domain.AllPriorities() {
		summary.PriorityCounts[p] = byPriority[string(p)]
	}

	if len(recent) > domain.RecentTaskLimit {
		recent = recent[:domain.RecentTaskLimit]
	}
	for _, t := range recent {
		summary.Recent = append(summary.Recent, domain.NewRecentTask(t))
	}

	return &SummarizeOutput{Now: now, Summary: summary}, nil
}
