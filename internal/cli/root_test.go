package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/taskdeck/internal/domain"
)

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	call := mockTUI(t)

	// Execute
	_, err := runCommand(t, c, "--as", "admin-1")

	// Assert
	assert.NoError(t, err)
	assert.True(t, call.called, "dashboard should open when no command is given")
	assert.Equal(t, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, call.actor)
	assert.Equal(t, domain.GlobalScope(), call.scope)
}

func TestNewRootCommand_MemberDefaultsToOwnScope(t *testing.T) {
	c, _ := newTestContainer(t)
	call := mockTUI(t)

	_, err := runCommand(t, c, "--as", "u1")

	assert.NoError(t, err)
	assert.Equal(t, domain.UserScope("u1"), call.scope)
}

func TestNewRootCommand_ActorFromEnv(t *testing.T) {
	c, _ := newTestContainer(t)
	call := mockTUI(t)
	t.Setenv(EnvUser, "u2")

	_, err := runCommand(t, c)

	assert.NoError(t, err)
	assert.Equal(t, "u2", call.actor.ID)
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	c, _ := newTestContainer(t)
	call := mockTUI(t)

	out, err := runCommand(t, c, "--help")

	assert.NoError(t, err)
	assert.False(t, call.called, "dashboard should not open for --help")
	assert.Contains(t, out, "Task Management:")
	assert.Contains(t, out, "Reports:")
}

func TestResolveActor_Errors(t *testing.T) {
	c, _ := newTestContainer(t)
	mockTUI(t)

	_, noActorErr := runCommand(t, c, "list")
	_, unknownErr := runCommand(t, c, "--as", "nobody", "list")

	assert.ErrorIs(t, noActorErr, errNoActor)
	assert.ErrorIs(t, unknownErr, domain.ErrUserNotFound)
}
