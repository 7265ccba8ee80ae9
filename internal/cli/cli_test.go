package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/testutil"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testSecret = "test-secret"

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(t *testing.T) (*app.Container, *testutil.MockTaskRepository) {
	t.Helper()
	t.Setenv(EnvUser, "")

	repo := testutil.NewMockTaskRepository()
	users := &testutil.MockUserDirectory{Users: []domain.UserSummary{
		{ID: "admin-1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin},
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleMember},
		{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember},
	}}
	cfg := domain.NewDefaultConfig()
	cfg.Server.JWTSecret = testSecret

	dataDir := t.TempDir()
	container := app.NewWithDeps(
		app.Config{DataDir: dataDir, ConfigPath: domain.ConfigPath(dataDir)},
		cfg,
		repo,
		&testutil.MockStoreInitializer{},
		users,
		&testutil.MockClock{NowTime: testNow},
		&testutil.MockIDGenerator{},
		&testutil.MockLogger{},
	)
	return container, repo
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, c *app.Container, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(c, "test-version")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// mockTUI replaces the dashboard launcher for the duration of the test.
func mockTUI(t *testing.T) *tuiCall {
	t.Helper()
	call := &tuiCall{}
	original := launchTUIFunc
	t.Cleanup(func() { launchTUIFunc = original })
	launchTUIFunc = func(_ *app.Container, actor domain.Actor, scope domain.Scope) error {
		call.called = true
		call.actor = actor
		call.scope = scope
		return nil
	}
	return call
}

type tuiCall struct {
	actor  domain.Actor
	scope  domain.Scope
	called bool
}

func storedTask(id string, created time.Time, status domain.Status, assignees ...string) *domain.Task {
	return &domain.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "Description of " + id,
		Priority:    domain.PriorityMedium,
		Status:      status,
		DueDate:     created.Add(24 * time.Hour),
		AssignedTo:  assignees,
		CreatedBy:   "admin-1",
		Attachments: []string{},
		Checklist:   []domain.ChecklistItem{},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func requireStored(t *testing.T, repo *testutil.MockTaskRepository, id string) *domain.Task {
	t.Helper()
	task := repo.Stored(id)
	require.NotNil(t, task, "task %s should be stored", id)
	return task
}
