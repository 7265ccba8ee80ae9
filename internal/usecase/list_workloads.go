package usecase

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/usecase/shared"
)

// workloadConcurrency bounds the per-member count queries in flight.
const workloadConcurrency = 4

// ListWorkloadsInput contains the parameters for the workload report.
type ListWorkloadsInput struct {
	Actor domain.Actor // Acting user
}

// ListWorkloadsOutput contains one row per member.
type ListWorkloadsOutput struct {
	Workloads []domain.Workload // Ordered by name, then ID
}

// ListWorkloads is the use case for the per-member task count report.
type ListWorkloads struct {
	tasks  domain.TaskRepository
	users  domain.UserDirectory
	policy domain.AccessPolicy
}

// NewListWorkloads creates a new ListWorkloads use case.
func NewListWorkloads(tasks domain.TaskRepository, users domain.UserDirectory, policy domain.AccessPolicy) *ListWorkloads {
	return &ListWorkloads{
		tasks:  tasks,
		users:  users,
		policy: policy,
	}
}

// Execute counts the tasks assigned to every member, per status.
func (uc *ListWorkloads) Execute(ctx context.Context, in ListWorkloadsInput) (*ListWorkloadsOutput, error) {
	if err := domain.RequireAdmin(uc.policy, in.Actor); err != nil {
		return nil, err
	}

	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var members []domain.UserSummary
	for _, u := range users {
		if u.Role == domain.RoleMember {
			members = append(members, u)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].ID < members[j].ID
	})

	rows := make([]domain.Workload, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workloadConcurrency)
	for i, u := range members {
		i, u := i, u
		g.Go(func() error {
			counts, err := uc.tasks.AggregateBy(gctx, domain.FieldStatus, domain.TaskFilter{AssignedTo: u.ID})
			if err != nil {
				return shared.RepositoryError("aggregate workload", err)
			}
			rows[i] = domain.Workload{
				User:       u,
				Pending:    counts[string(domain.StatusPending)],
				InProgress: counts[string(domain.StatusInProgress)],
				Completed:  counts[string(domain.StatusCompleted)],
			}
			rows[i].Total = rows[i].Pending + rows[i].InProgress + rows[i].Completed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListWorkloadsOutput{Workloads: rows}, nil
}
