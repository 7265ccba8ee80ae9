package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateInput() CreateTaskInput {
	return CreateTaskInput{
		Actor:       adminActor,
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    domain.PriorityHigh,
		AssignedTo:  domain.AssignTo("u1", "u2"),
	}
}

func TestCreateTask_Execute_Success(t *testing.T) {
	// Setup
	env := newTestEnv()
	uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), validCreateInput())

	// Assert
	require.NoError(t, err)
	task := out.Task
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, 0, task.Progress)
	assert.Equal(t, []string{"u1", "u2"}, task.AssignedTo)
	assert.Equal(t, "admin-1", task.CreatedBy)
	assert.Equal(t, testNow, task.DueDate)
	assert.Equal(t, testNow, task.CreatedAt)
	assert.NotNil(t, task.Attachments)
	assert.NotNil(t, task.Checklist)

	stored := env.repo.Stored("task-1")
	require.NotNil(t, stored)
	assert.Equal(t, task, stored)
	assert.Equal(t, []string{"info"}, env.logger.Levels())
}

func TestCreateTask_Execute_DerivesFromChecklist(t *testing.T) {
	// Setup
	env := newTestEnv()
	uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)
	in := validCreateInput()
	in.Checklist = []domain.ChecklistItem{
		{Title: "a", Completed: true},
		{Title: "b"},
	}
	due := testNow.Add(72 * time.Hour)
	in.DueDate = &due

	// Execute
	out, err := uc.Execute(context.Background(), in)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50, out.Task.Progress)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
	assert.Equal(t, due, out.Task.DueDate)
}

func TestCreateTask_Execute_EmptyAssigneesAccepted(t *testing.T) {
	env := newTestEnv()
	uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)
	in := validCreateInput()
	in.AssignedTo = domain.AssignTo()

	out, err := uc.Execute(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, out.Task.AssignedTo)
}

func TestCreateTask_Execute_DeduplicatesAssignees(t *testing.T) {
	env := newTestEnv()
	uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)
	in := validCreateInput()
	in.AssignedTo = domain.AssignTo("u1", "u1", "u2")

	out, err := uc.Execute(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, out.Task.AssignedTo)
}

func TestCreateTask_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(in *CreateTaskInput)
		wantErr error
	}{
		{
			name:    "member actor",
			modify:  func(in *CreateTaskInput) { in.Actor = aliceActor },
			wantErr: domain.ErrAdminOnly,
		},
		{
			name:    "assignees absent",
			modify:  func(in *CreateTaskInput) { in.AssignedTo = domain.Assignment{} },
			wantErr: domain.ErrAssigneesRequired,
		},
		{
			name:    "assignees not a list",
			modify:  func(in *CreateTaskInput) { in.AssignedTo = domain.Assignment{Present: true, NotList: true} },
			wantErr: domain.ErrAssigneesNotList,
		},
		{
			name:    "empty title",
			modify:  func(in *CreateTaskInput) { in.Title = "" },
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "empty description",
			modify:  func(in *CreateTaskInput) { in.Description = "" },
			wantErr: domain.ErrEmptyDescription,
		},
		{
			name:    "missing priority",
			modify:  func(in *CreateTaskInput) { in.Priority = "" },
			wantErr: domain.ErrPriorityRequired,
		},
		{
			name:    "unknown priority",
			modify:  func(in *CreateTaskInput) { in.Priority = "urgent" },
			wantErr: domain.ErrInvalidPriority,
		},
		{
			name: "checklist item without title",
			modify: func(in *CreateTaskInput) {
				in.Checklist = []domain.ChecklistItem{{Completed: true}}
			},
			wantErr: domain.ErrInvalidChecklist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			env := newTestEnv()
			uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)
			in := validCreateInput()
			tt.modify(&in)

			// Execute
			_, err := uc.Execute(context.Background(), in)

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.repo.Tasks, "nothing may be persisted")
		})
	}
}

func TestCreateTask_Execute_SingleAssigneeIsInvalidInput(t *testing.T) {
	env := newTestEnv()
	uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)
	in := validCreateInput()
	in.AssignedTo = domain.Assignment{Present: true, NotList: true}

	_, err := uc.Execute(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateTask_Execute_InsertError(t *testing.T) {
	env := newTestEnv()
	env.repo.InsertErr = assert.AnError
	uc := NewCreateTask(env.repo, env.policy, env.ids, env.clock, env.logger)

	_, err := uc.Execute(context.Background(), validCreateInput())

	assert.ErrorIs(t, err, domain.ErrRepositoryFailure)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "insert task")
}
