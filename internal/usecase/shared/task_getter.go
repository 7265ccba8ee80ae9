// Package shared provides helpers used by multiple use cases.
package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskdeck/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// This centralizes the common pattern of:
//
//	task, err := repo.FindOne(ctx, id)
//	if err != nil { return nil, shared.RepositoryError("get task", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(ctx context.Context, repo domain.TaskRepository, taskID string) (*domain.Task, error) {
	task, err := repo.FindOne(ctx, taskID)
	if err != nil {
		return nil, RepositoryError("get task", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// RepositoryError marks err as a repository failure, prefixed with the operation.
// Errors already marked are only prefixed.
func RepositoryError(op string, err error) error {
	if errors.Is(err, domain.ErrRepositoryFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRepositoryFailure, err)
}
