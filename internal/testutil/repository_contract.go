package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdeck/internal/domain"
)

// ContractBase is the creation time of the first task seeded by the repository contract.
var ContractBase = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

// ContractTask returns a fully populated task for repository tests.
func ContractTask(id string, created time.Time, status domain.Status, priority domain.Priority, assignees ...string) *domain.Task {
	if assignees == nil {
		assignees = []string{}
	}
	return &domain.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "Description of " + id,
		Priority:    priority,
		Status:      status,
		DueDate:     created.Add(24 * time.Hour),
		CreatedAt:   created,
		UpdatedAt:   created,
		CreatedBy:   "admin-1",
		AssignedTo:  assignees,
		Attachments: []string{},
		Checklist:   []domain.ChecklistItem{},
	}
}

// RunTaskRepositoryContract runs the behaviour every domain.TaskRepository
// implementation must share. newRepo must return an empty, initialized repository.
func RunTaskRepositoryContract(t *testing.T, newRepo func(t *testing.T) domain.TaskRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("insert and find one", func(t *testing.T) {
		repo := newRepo(t)
		task := ContractTask("a", ContractBase, domain.StatusInProgress, domain.PriorityHigh, "u1", "u2")
		task.Attachments = []string{"https://example.com/spec.pdf"}
		task.Checklist = []domain.ChecklistItem{
			{Title: "draft", Completed: true},
			{Title: "review", Completed: false},
		}
		task.Progress = 50

		require.NoError(t, repo.Insert(ctx, task))
		got, err := repo.FindOne(ctx, "a")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, task, got)
	})

	t.Run("find one missing", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.FindOne(ctx, "missing")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("insert duplicate", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, ContractTask("a", ContractBase, domain.StatusPending, domain.PriorityLow)))

		err := repo.Insert(ctx, ContractTask("a", ContractBase, domain.StatusPending, domain.PriorityLow))

		assert.Error(t, err)
	})

	t.Run("save replaces", func(t *testing.T) {
		repo := newRepo(t)
		task := ContractTask("a", ContractBase, domain.StatusPending, domain.PriorityLow, "u1")
		require.NoError(t, repo.Insert(ctx, task))

		updated := task.Clone()
		updated.Title = "Renamed"
		updated.AssignedTo = []string{"u2"}
		updated.Checklist = []domain.ChecklistItem{{Title: "only", Completed: true}}
		updated.Status = domain.StatusCompleted
		updated.Progress = 100
		updated.UpdatedAt = ContractBase.Add(time.Hour)
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.FindOne(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		n, err := repo.Count(ctx, domain.TaskFilter{AssignedTo: "u1"})
		require.NoError(t, err)
		assert.Zero(t, n, "previous assignees are replaced")
	})

	t.Run("save missing", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Save(ctx, ContractTask("ghost", ContractBase, domain.StatusPending, domain.PriorityLow))

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, ContractTask("a", ContractBase, domain.StatusPending, domain.PriorityLow, "u1")))

		require.NoError(t, repo.Delete(ctx, "a"))
		got, err := repo.FindOne(ctx, "a")
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.NoError(t, repo.Delete(ctx, "a"), "deleting twice is a no-op")
	})

	t.Run("find many order and limit", func(t *testing.T) {
		repo := newRepo(t)
		// b and c share a creation time; ties are broken by ID.
		for _, task := range []*domain.Task{
			ContractTask("c", ContractBase.Add(time.Hour), domain.StatusPending, domain.PriorityLow),
			ContractTask("a", ContractBase, domain.StatusPending, domain.PriorityLow),
			ContractTask("d", ContractBase.Add(2*time.Hour), domain.StatusPending, domain.PriorityLow),
			ContractTask("b", ContractBase.Add(time.Hour), domain.StatusPending, domain.PriorityLow),
		} {
			require.NoError(t, repo.Insert(ctx, task))
		}

		oldest, err := repo.FindMany(ctx, domain.TaskFilter{}, domain.FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, taskIDs(oldest))

		newest, err := repo.FindMany(ctx, domain.TaskFilter{}, domain.FindOptions{NewestFirst: true, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"d", "b", "c"}, taskIDs(newest))
	})

	t.Run("filters", func(t *testing.T) {
		repo := newRepo(t)
		seedContractScenario(t, repo)
		now := ContractBase.Add(48 * time.Hour)

		tests := []struct {
			name   string
			filter domain.TaskFilter
			want   []string
		}{
			{"all", domain.TaskFilter{}, []string{"t0", "t1", "t2", "t3", "t4", "t5"}},
			{"status", domain.TaskFilter{Status: domain.StatusCompleted}, []string{"t2", "t5"}},
			{"status not", domain.TaskFilter{StatusNot: domain.StatusCompleted}, []string{"t0", "t1", "t3", "t4"}},
			{"priority", domain.TaskFilter{Priority: domain.PriorityHigh}, []string{"t2", "t5"}},
			{"assignee", domain.TaskFilter{AssignedTo: "u1"}, []string{"t0", "t1", "t2"}},
			{"assignee and status", domain.TaskFilter{AssignedTo: "u2", Status: domain.StatusCompleted}, []string{"t2"}},
			{"due before", domain.TaskFilter{DueBefore: &now}, []string{"t0", "t1"}},
			{"due after", domain.TaskFilter{DueAfter: &now}, []string{"t2", "t3", "t4", "t5"}},
			{"overdue", domain.TaskFilter{DueBefore: &now, StatusNot: domain.StatusCompleted}, []string{"t0", "t1"}},
			{"unknown assignee", domain.TaskFilter{AssignedTo: "nobody"}, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tasks, err := repo.FindMany(ctx, tt.filter, domain.FindOptions{})
				require.NoError(t, err)
				assert.Equal(t, tt.want, taskIDs(tasks))

				n, err := repo.Count(ctx, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, len(tt.want), n)
			})
		}
	})

	t.Run("aggregate by", func(t *testing.T) {
		repo := newRepo(t)
		seedContractScenario(t, repo)

		byStatus, err := repo.AggregateBy(ctx, domain.FieldStatus, domain.TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"pending": 2, "in-progress": 2, "completed": 2}, byStatus)

		byPriority, err := repo.AggregateBy(ctx, domain.FieldPriority, domain.TaskFilter{AssignedTo: "u1"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"low": 1, "high": 1, "medium": 1}, byPriority)

		none, err := repo.AggregateBy(ctx, domain.FieldStatus, domain.TaskFilter{AssignedTo: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

// seedContractScenario stores six tasks created 12 hours apart from ContractBase,
// each due 24 hours after creation.
func seedContractScenario(t *testing.T, repo domain.TaskRepository) {
	t.Helper()
	statuses := domain.AllStatuses()
	priorities := domain.AllPriorities()
	assignees := [][]string{{"u1"}, {"u1"}, {"u1", "u2"}, {"u2"}, {}, {"u3"}}
	for i := 0; i < 6; i++ {
		task := ContractTask(fmt.Sprintf("t%d", i), ContractBase.Add(time.Duration(i)*12*time.Hour),
			statuses[i%3], priorities[i%3], assignees[i]...)
		require.NoError(t, repo.Insert(context.Background(), task))
	}
}

func taskIDs(tasks []*domain.Task) []string {
	var ids []string
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
