package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdeck/internal/app"
	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/testutil"
)

var (
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	adminActor = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	aliceActor = domain.Actor{ID: "u1", Role: domain.RoleMember}
)

func newTestContainer(t *testing.T) (*app.Container, *testutil.MockTaskRepository) {
	t.Helper()
	repo := testutil.NewMockTaskRepository()
	users := &testutil.MockUserDirectory{Users: []domain.UserSummary{
		{ID: "admin-1", Name: "Root", Role: domain.RoleAdmin},
		{ID: "u1", Name: "Alice", Role: domain.RoleMember},
	}}
	c := app.NewWithDeps(app.Config{DataDir: t.TempDir()}, domain.NewDefaultConfig(), repo, &testutil.MockStoreInitializer{},
		users, &testutil.MockClock{NowTime: testNow}, &testutil.MockIDGenerator{}, &testutil.MockLogger{})
	return c, repo
}

func putTask(repo *testutil.MockTaskRepository, id string, status domain.Status, assignees ...string) {
	repo.Put(&domain.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "d",
		Priority:    domain.PriorityMedium,
		Status:      status,
		DueDate:     testNow.Add(time.Hour),
		AssignedTo:  assignees,
		CreatedAt:   testNow.Add(-time.Hour),
		UpdatedAt:   testNow.Add(-time.Hour),
	})
}

func TestModel_Load_Global(t *testing.T) {
	// Setup
	c, repo := newTestContainer(t)
	putTask(repo, "t1", domain.StatusPending, "u1")
	putTask(repo, "t2", domain.StatusCompleted, "u1")
	m := NewDashboard(c, adminActor, domain.GlobalScope())

	// Execute
	msg := m.load()()

	// Assert
	loaded, ok := msg.(MsgLoaded)
	require.True(t, ok, "load should return MsgLoaded, got %T", msg)
	assert.Equal(t, 2, loaded.Summary.Total)
	assert.Equal(t, testNow, loaded.Now)
	require.Len(t, loaded.Workloads, 1)
	assert.Equal(t, "Alice", loaded.Workloads[0].User.Name)
	assert.Equal(t, 2, loaded.Workloads[0].Total)
}

func TestModel_Load_MemberScopeSkipsWorkloads(t *testing.T) {
	c, repo := newTestContainer(t)
	putTask(repo, "t1", domain.StatusPending, "u1")
	m := NewDashboard(c, aliceActor, domain.UserScope("u1"))

	msg := m.load()()

	loaded, ok := msg.(MsgLoaded)
	require.True(t, ok, "load should return MsgLoaded, got %T", msg)
	assert.Equal(t, 1, loaded.Summary.Total)
	assert.Nil(t, loaded.Workloads)
}

func TestModel_Load_Forbidden(t *testing.T) {
	c, _ := newTestContainer(t)
	m := NewDashboard(c, aliceActor, domain.GlobalScope())

	msg := m.load()()

	errMsg, ok := msg.(MsgError)
	require.True(t, ok, "load should return MsgError, got %T", msg)
	assert.ErrorIs(t, errMsg.Err, domain.ErrForbidden)
}

func TestUpdate_MsgLoaded(t *testing.T) {
	m := &Model{scope: domain.GlobalScope(), err: errors.New("old")}
	summary := domain.Summary{Total: 3}

	updated, _ := m.Update(MsgLoaded{Now: testNow, Summary: summary, Scope: domain.GlobalScope()})

	result, ok := updated.(*Model)
	require.True(t, ok, "Update should return *Model")
	require.NotNil(t, result.summary)
	assert.Equal(t, 3, result.summary.Total)
	assert.Equal(t, testNow, result.loadedAt)
	assert.NoError(t, result.err)
}

func TestUpdate_MsgLoaded_StaleScopeDropped(t *testing.T) {
	m := &Model{scope: domain.UserScope("admin-1")}

	updated, _ := m.Update(MsgLoaded{Summary: domain.Summary{Total: 3}, Scope: domain.GlobalScope()})

	assert.Nil(t, updated.(*Model).summary)
}

func TestUpdate_MsgError(t *testing.T) {
	m := &Model{}

	updated, _ := m.Update(MsgError{Err: domain.ErrAdminOnly})

	assert.ErrorIs(t, updated.(*Model).err, domain.ErrAdminOnly)
	assert.Contains(t, updated.(*Model).View(), "Error:")
}

func TestUpdate_ToggleScope(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.Actor
		from  domain.Scope
		want  domain.Scope
		load  bool
	}{
		{name: "admin to own", actor: adminActor, from: domain.GlobalScope(), want: domain.UserScope("admin-1"), load: true},
		{name: "admin to global", actor: adminActor, from: domain.UserScope("admin-1"), want: domain.GlobalScope(), load: true},
		{name: "member unchanged", actor: aliceActor, from: domain.UserScope("u1"), want: domain.UserScope("u1"), load: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContainer(t)
			m := NewDashboard(c, tt.actor, tt.from)

			updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})

			assert.Equal(t, tt.want, updated.(*Model).scope)
			assert.Equal(t, tt.load, cmd != nil)
		})
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := &Model{keys: DefaultKeyMap()}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := &Model{}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, updated.(*Model).width)
	assert.Equal(t, 40, updated.(*Model).height)
}

func TestView_Loading(t *testing.T) {
	c, _ := newTestContainer(t)
	m := NewDashboard(c, adminActor, domain.GlobalScope())

	assert.Contains(t, m.View(), "Loading...")
}
