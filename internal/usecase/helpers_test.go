package usecase

import (
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/testutil"
)

var (
	testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	adminActor  = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	aliceActor  = domain.Actor{ID: "u1", Role: domain.RoleMember}
	bobActor    = domain.Actor{ID: "u2", Role: domain.RoleMember}
	outsiderAct = domain.Actor{ID: "u9", Role: domain.RoleMember}
)

// testEnv bundles the doubles shared by use case tests.
type testEnv struct {
	repo   *testutil.MockTaskRepository
	users  *testutil.MockUserDirectory
	clock  *testutil.MockClock
	ids    *testutil.MockIDGenerator
	logger *testutil.MockLogger
	policy domain.RolePolicy
}

func newTestEnv() *testEnv {
	return &testEnv{
		repo: testutil.NewMockTaskRepository(),
		users: &testutil.MockUserDirectory{Users: []domain.UserSummary{
			{ID: "admin-1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin},
			{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleMember},
			{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember},
		}},
		clock:  &testutil.MockClock{NowTime: testNow},
		ids:    &testutil.MockIDGenerator{},
		logger: &testutil.MockLogger{},
	}
}

// newTask returns a stored-task fixture consistent with its checklist.
func newTask(id string, created time.Time, assignees ...string) *domain.Task {
	return &domain.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "Description of " + id,
		Priority:    domain.PriorityLow,
		Status:      domain.StatusPending,
		DueDate:     created.Add(24 * time.Hour),
		AssignedTo:  assignees,
		CreatedBy:   "admin-1",
		Attachments: []string{},
		Checklist:   []domain.ChecklistItem{},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func checklistInput(items ...domain.ChecklistItem) []domain.ChecklistItemInput {
	in := make([]domain.ChecklistItemInput, 0, len(items))
	for _, item := range items {
		in = append(in, domain.NewChecklistItemInput(item.Title, item.Completed))
	}
	return in
}
