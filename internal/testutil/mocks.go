// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskdeck/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockIDGenerator is a test double for domain.IDGenerator.
// It returns "task-1", "task-2", ... in order.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int
}

// NewID returns the next sequential ID.
func (m *MockIDGenerator) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("task-%d", m.n)
}

// MockTaskRepository is a test double for domain.TaskRepository.
// It honours filters and options, and is safe for concurrent use.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	FindErr   error
	CountErr  error
	AggErr    error
	InsertErr error
	SaveErr   error
	DeleteErr error
	mu        sync.RWMutex
	SaveCalls int
}

// Ensure MockTaskRepository implements domain.TaskRepository.
var _ domain.TaskRepository = (*MockTaskRepository)(nil)

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks: make(map[string]*domain.Task),
	}
}

// Put stores a copy of the task directly, bypassing error injection.
func (m *MockTaskRepository) Put(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tasks {
		m.Tasks[t.ID] = t.Clone()
	}
}

// Stored returns a copy of the stored task, or nil.
func (m *MockTaskRepository) Stored(id string) *domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.Tasks[id]
	if !ok {
		return nil
	}
	return t.Clone()
}

// FindMany returns copies of matching tasks.
func (m *MockTaskRepository) FindMany(_ context.Context, filter domain.TaskFilter, opts domain.FindOptions) ([]*domain.Task, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			tasks = append(tasks, t.Clone())
		}
	}
	domain.SortTasks(tasks, opts.NewestFirst)
	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

// FindOne returns a copy of the task, or nil if absent.
func (m *MockTaskRepository) FindOne(_ context.Context, id string) (*domain.Task, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.Stored(id), nil
}

// Count returns the number of matching tasks.
func (m *MockTaskRepository) Count(_ context.Context, filter domain.TaskFilter) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			n++
		}
	}
	return n, nil
}

// AggregateBy counts matching tasks per field value.
func (m *MockTaskRepository) AggregateBy(_ context.Context, field domain.TaskField, filter domain.TaskFilter) (map[string]int, error) {
	if m.AggErr != nil {
		return nil, m.AggErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			counts[field.ValueOf(t)]++
		}
	}
	return counts, nil
}

// Insert stores a new task. Fails if the ID is already taken.
func (m *MockTaskRepository) Insert(_ context.Context, task *domain.Task) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tasks[task.ID]; ok {
		return fmt.Errorf("insert task %s: duplicate id", task.ID)
	}
	m.Tasks[task.ID] = task.Clone()
	return nil
}

// Save replaces an existing task.
func (m *MockTaskRepository) Save(_ context.Context, task *domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if _, ok := m.Tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task.Clone()
	return nil
}

// Delete removes a task.
func (m *MockTaskRepository) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tasks, id)
	return nil
}

// MockUserDirectory is a test double for domain.UserDirectory.
type MockUserDirectory struct {
	Err   error
	Users []domain.UserSummary
}

// Ensure MockUserDirectory implements domain.UserDirectory.
var _ domain.UserDirectory = (*MockUserDirectory)(nil)

// Resolve returns the known users among ids, in order.
func (m *MockUserDirectory) Resolve(_ context.Context, ids []string) ([]domain.UserSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		for _, u := range m.Users {
			if u.ID == id {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

// List returns all users.
func (m *MockUserDirectory) List(_ context.Context) ([]domain.UserSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.UserSummary(nil), m.Users...), nil
}

// LogEntry is a message captured by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.record("info", taskID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.record("debug", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.record("warn", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.record("error", taskID, category, msg) }

// Levels returns the recorded levels in order.
func (m *MockLogger) Levels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	levels := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		levels[i] = e.Level
	}
	return levels
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	Err         error
	Initialized bool
}

// Initialize marks the store initialized.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Initialized = true
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns the configured config, or defaults.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr error
	Written *domain.Config
	Info    domain.ConfigInfo
}

// GetConfigInfo returns the configured info.
func (m *MockConfigManager) GetConfigInfo() domain.ConfigInfo {
	return m.Info
}

// InitConfig records the config, or returns ErrConfigExists if Info.Exists is set.
func (m *MockConfigManager) InitConfig(cfg *domain.Config) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	if m.Info.Exists {
		return domain.ErrConfigExists
	}
	m.Written = cfg
	m.Info.Exists = true
	return nil
}
