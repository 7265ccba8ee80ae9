package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetChecklist_Execute_Success(t *testing.T) {
	// Setup
	env := newTestEnv()
	env.repo.Put(newTask("t1", testNow, "u1"))
	uc := NewSetChecklist(env.repo, env.users, env.policy, env.clock, env.logger)

	// Execute
	out, err := uc.Execute(context.Background(), SetChecklistInput{
		Actor:  aliceActor,
		TaskID: "t1",
		Checklist: checklistInput(
			domain.ChecklistItem{Title: "a", Completed: true},
			domain.ChecklistItem{Title: "b", Completed: false},
		),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50, out.Task.Progress)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
	require.Len(t, out.Assignees, 1)
	assert.Equal(t, "Alice", out.Assignees[0].Name)

	stored := env.repo.Stored("t1")
	assert.Equal(t, 50, stored.Progress)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Len(t, stored.Checklist, 2)
}

func TestSetChecklist_Execute_Idempotent(t *testing.T) {
	// Setup
	env := newTestEnv()
	env.repo.Put(newTask("t1", testNow, "u1"))
	uc := NewSetChecklist(env.repo, env.users, env.policy, env.clock, env.logger)
	in := SetChecklistInput{
		Actor:  adminActor,
		TaskID: "t1",
		Checklist: checklistInput(
			domain.ChecklistItem{Title: "a", Completed: true},
			domain.ChecklistItem{Title: "b"},
			domain.ChecklistItem{Title: "c"},
		),
	}

	// Execute
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	first := env.repo.Stored("t1")
	_, err = uc.Execute(context.Background(), in)
	require.NoError(t, err)
	second := env.repo.Stored("t1")

	// Assert
	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Checklist, second.Checklist)
	assert.Equal(t, 33, second.Progress)
}

func TestSetChecklist_Execute_AllCompleted(t *testing.T) {
	env := newTestEnv()
	env.repo.Put(newTask("t1", testNow, "u1"))
	uc := NewSetChecklist(env.repo, env.users, env.policy, env.clock, env.logger)

	out, err := uc.Execute(context.Background(), SetChecklistInput{
		Actor:     aliceActor,
		TaskID:    "t1",
		Checklist: checklistInput(domain.ChecklistItem{Title: "a", Completed: true}),
	})

	require.NoError(t, err)
	assert.Equal(t, 100, out.Task.Progress)
	assert.Equal(t, domain.StatusCompleted, out.Task.Status)
}

func TestSetChecklist_Execute_EmptyResetsToPending(t *testing.T) {
	env := newTestEnv()
	task := partialTask()
	env.repo.Put(task)
	uc := NewSetChecklist(env.repo, env.users, env.policy, env.clock, env.logger)

	out, err := uc.Execute(context.Background(), SetChecklistInput{
		Actor:     aliceActor,
		TaskID:    "t1",
		Checklist: []domain.ChecklistItemInput{},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Task.Progress)
	assert.Equal(t, domain.StatusPending, out.Task.Status)
	assert.Empty(t, out.Task.Checklist)
}

func TestSetChecklist_Execute_ErrorPrecedence(t *testing.T) {
	title := "a"
	malformed := []domain.ChecklistItemInput{{Title: &title}} // completed missing

	tests := []struct {
		name    string
		in      SetChecklistInput
		wantErr error
	}{
		{
			name:    "shape checked before existence",
			in:      SetChecklistInput{Actor: outsiderAct, TaskID: "missing", Checklist: malformed},
			wantErr: domain.ErrInvalidChecklist,
		},
		{
			name:    "shape checked before authorization",
			in:      SetChecklistInput{Actor: outsiderAct, TaskID: "t1", Checklist: malformed},
			wantErr: domain.ErrInvalidChecklist,
		},
		{
			name:    "absent checklist",
			in:      SetChecklistInput{Actor: aliceActor, TaskID: "t1"},
			wantErr: domain.ErrInvalidChecklist,
		},
		{
			name:    "existence checked before authorization",
			in:      SetChecklistInput{Actor: outsiderAct, TaskID: "missing", Checklist: []domain.ChecklistItemInput{}},
			wantErr: domain.ErrTaskNotFound,
		},
		{
			name:    "non-assignee forbidden",
			in:      SetChecklistInput{Actor: outsiderAct, TaskID: "t1", Checklist: []domain.ChecklistItemInput{}},
			wantErr: domain.ErrNotAssigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			env := newTestEnv()
			env.repo.Put(partialTask())
			uc := NewSetChecklist(env.repo, env.users, env.policy, env.clock, env.logger)

			// Execute
			_, err := uc.Execute(context.Background(), tt.in)

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, partialTask(), env.repo.Stored("t1"))
		})
	}
}

func TestSetChecklist_Execute_DirectoryDownStillSucceeds(t *testing.T) {
	env := newTestEnv()
	env.users.Err = assert.AnError
	env.repo.Put(newTask("t1", testNow, "u1"))
	uc := NewSetChecklist(env.repo, env.users, env.policy, env.clock, env.logger)

	out, err := uc.Execute(context.Background(), SetChecklistInput{
		Actor:     aliceActor,
		TaskID:    "t1",
		Checklist: checklistInput(domain.ChecklistItem{Title: "a"}),
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.UserSummary{{ID: "u1"}}, out.Assignees)
	assert.Contains(t, env.logger.Levels(), "warn")
}
