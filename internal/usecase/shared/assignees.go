package shared

import (
	"context"

	"github.com/runoshun/taskdeck/internal/domain"
)

// ResolveUsers looks up display information for the given user IDs.
// If the directory fails, the failure is logged and every ID maps to an
// ID-only summary so that the calling operation still succeeds.
func ResolveUsers(ctx context.Context, users domain.UserDirectory, logger domain.Logger, taskID string, ids []string) map[string]domain.UserSummary {
	ids = domain.UniqueIDs(ids)
	out := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out
	}

	resolved, err := users.Resolve(ctx, ids)
	if err != nil {
		logger.Warn(taskID, "users", "resolve assignees: "+err.Error())
		for _, id := range ids {
			out[id] = domain.UserSummary{ID: id}
		}
		return out
	}
	for _, u := range resolved {
		out[u.ID] = u
	}
	return out
}

// ResolveAssignees returns the task's assignees in assignment order.
// Users unknown to the directory are omitted.
func ResolveAssignees(ctx context.Context, users domain.UserDirectory, logger domain.Logger, task *domain.Task) []domain.UserSummary {
	byID := ResolveUsers(ctx, users, logger, task.ID, task.AssignedTo)
	return PickUsers(byID, task.AssignedTo)
}

// PickUsers returns the summaries of ids found in byID, in order.
func PickUsers(byID map[string]domain.UserSummary, ids []string) []domain.UserSummary {
	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}
