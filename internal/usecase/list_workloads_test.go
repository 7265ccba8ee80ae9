package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWorkloads_Execute(t *testing.T) {
	// Setup
	env := newTestEnv()
	env.users.Users = append(env.users.Users, domain.UserSummary{ID: "u0", Name: "Alice", Role: domain.RoleMember})
	seedListScenario(env)
	uc := NewListWorkloads(env.repo, env.users, env.policy)

	// Execute
	out, err := uc.Execute(context.Background(), ListWorkloadsInput{Actor: adminActor})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Workloads, 3, "admins are not listed")

	assert.Equal(t, "u0", out.Workloads[0].User.ID, "same name orders by ID")
	assert.Equal(t, 0, out.Workloads[0].Total)

	alice := out.Workloads[1]
	assert.Equal(t, "u1", alice.User.ID)
	assert.Equal(t, 2, alice.Total)
	assert.Equal(t, 1, alice.Pending)
	assert.Equal(t, 0, alice.InProgress)
	assert.Equal(t, 1, alice.Completed)

	bob := out.Workloads[2]
	assert.Equal(t, "Bob", bob.User.Name)
	assert.Equal(t, 2, bob.Total)
	assert.Equal(t, 1, bob.InProgress)
	assert.Equal(t, 1, bob.Completed)
}

func TestListWorkloads_Execute_Errors(t *testing.T) {
	t.Run("member forbidden", func(t *testing.T) {
		env := newTestEnv()
		uc := NewListWorkloads(env.repo, env.users, env.policy)

		_, err := uc.Execute(context.Background(), ListWorkloadsInput{Actor: aliceActor})

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("directory failure", func(t *testing.T) {
		env := newTestEnv()
		env.users.Err = assert.AnError
		uc := NewListWorkloads(env.repo, env.users, env.policy)

		_, err := uc.Execute(context.Background(), ListWorkloadsInput{Actor: adminActor})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "list users")
	})
	t.Run("repository failure", func(t *testing.T) {
		env := newTestEnv()
		env.repo.AggErr = assert.AnError
		uc := NewListWorkloads(env.repo, env.users, env.policy)

		_, err := uc.Execute(context.Background(), ListWorkloadsInput{Actor: adminActor})

		assert.ErrorIs(t, err, domain.ErrRepositoryFailure)
	})
}
