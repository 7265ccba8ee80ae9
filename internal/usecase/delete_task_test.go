package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteTask_Execute_Success(t *testing.T) {
	// Setup
	env := newTestEnv()
	env.repo.Put(newTask("t1", testNow, "u1"))
	uc := NewDeleteTask(env.repo, env.policy, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), DeleteTaskInput{Actor: adminActor, TaskID: "t1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "t1", out.Task.ID)
	assert.Nil(t, env.repo.Stored("t1"), "task should be deleted from repository")
}

func TestDeleteTask_Execute_AssigneeForbidden(t *testing.T) {
	env := newTestEnv()
	env.repo.Put(newTask("t1", testNow, "u1"))
	uc := NewDeleteTask(env.repo, env.policy, env.logger)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{Actor: aliceActor, TaskID: "t1"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotNil(t, env.repo.Stored("t1"))
}

func TestDeleteTask_Execute_TaskNotFound(t *testing.T) {
	env := newTestEnv()
	uc := NewDeleteTask(env.repo, env.policy, env.logger)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{Actor: adminActor, TaskID: "missing"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_Execute_DeleteError(t *testing.T) {
	env := newTestEnv()
	env.repo.Put(newTask("t1", testNow, "u1"))
	env.repo.DeleteErr = assert.AnError
	uc := NewDeleteTask(env.repo, env.policy, env.logger)

	_, err := uc.Execute(context.Background(), DeleteTaskInput{Actor: adminActor, TaskID: "t1"})

	assert.ErrorIs(t, err, domain.ErrRepositoryFailure)
	assert.Contains(t, err.Error(), "delete task")
}
