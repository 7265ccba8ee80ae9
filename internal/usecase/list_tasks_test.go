package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedListScenario stores T1 (pending) and T2 (completed) assigned to u1,
// and T3 assigned only to u2.
func seedListScenario(env *testEnv) {
	t1 := newTask("T1", testNow, "u1")
	t2 := newTask("T2", testNow.Add(time.Minute), "u1", "u2")
	t2.Checklist = []domain.ChecklistItem{{Title: "a", Completed: true}}
	t2.Progress = 100
	t2.Status = domain.StatusCompleted
	t3 := newTask("T3", testNow.Add(2*time.Minute), "u2")
	t3.Status = domain.StatusInProgress
	env.repo.Put(t1, t2, t3)
}

func listedIDs(out *ListTasksOutput) []string {
	ids := make([]string, len(out.Tasks))
	for i, item := range out.Tasks {
		ids[i] = item.Task.ID
	}
	return ids
}

func TestListTasks_Execute_MemberSeesAssignedOnly(t *testing.T) {
	// Setup
	env := newTestEnv()
	seedListScenario(env)
	uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), ListTasksInput{Actor: aliceActor})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, listedIDs(out))
	assert.Equal(t, domain.StatusSummary{All: 2, Pending: 1, InProgress: 0, Completed: 1}, out.Summary)
}

func TestListTasks_Execute_AdminSeesAll(t *testing.T) {
	// Setup
	env := newTestEnv()
	seedListScenario(env)
	uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), ListTasksInput{Actor: adminActor})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, listedIDs(out))
	assert.Equal(t, domain.StatusSummary{All: 3, Pending: 1, InProgress: 1, Completed: 1}, out.Summary)
}

func TestListTasks_Execute_StatusFilter(t *testing.T) {
	// Setup
	env := newTestEnv()
	seedListScenario(env)
	uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), ListTasksInput{Actor: adminActor, Status: domain.StatusCompleted})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"T2"}, listedIDs(out))
	// The summary ignores the status filter
	assert.Equal(t, 3, out.Summary.All)
}

func TestListTasks_Execute_Projections(t *testing.T) {
	// Setup
	env := newTestEnv()
	seedListScenario(env)
	uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), ListTasksInput{Actor: adminActor})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, 0, out.Tasks[0].CompletedTodoCount)
	assert.Equal(t, 1, out.Tasks[1].CompletedTodoCount)
	require.Len(t, out.Tasks[1].Assignees, 2)
	assert.Equal(t, "Alice", out.Tasks[1].Assignees[0].Name)
	assert.Equal(t, "Bob", out.Tasks[1].Assignees[1].Name)
}

func TestListTasks_Execute_InvalidStatus(t *testing.T) {
	env := newTestEnv()
	uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

	_, err := uc.Execute(context.Background(), ListTasksInput{Actor: adminActor, Status: "done"})

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListTasks_Execute_RepositoryErrors(t *testing.T) {
	t.Run("find", func(t *testing.T) {
		env := newTestEnv()
		env.repo.FindErr = assert.AnError
		uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

		_, err := uc.Execute(context.Background(), ListTasksInput{Actor: adminActor})

		assert.ErrorIs(t, err, domain.ErrRepositoryFailure)
	})
	t.Run("count", func(t *testing.T) {
		env := newTestEnv()
		env.repo.CountErr = assert.AnError
		uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

		_, err := uc.Execute(context.Background(), ListTasksInput{Actor: adminActor})

		assert.ErrorIs(t, err, domain.ErrRepositoryFailure)
	})
}

func TestListTasks_Execute_Empty(t *testing.T) {
	env := newTestEnv()
	uc := NewListTasks(env.repo, env.users, env.policy, env.logger)

	out, err := uc.Execute(context.Background(), ListTasksInput{Actor: aliceActor})

	require.NoError(t, err)
	assert.Empty(t, out.Tasks)
	assert.Equal(t, domain.StatusSummary{}, out.Summary)
}
