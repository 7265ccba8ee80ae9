// Package jsonstore provides a JSON file-based implementation of TaskRepository.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/taskdeck/internal/domain"
)

// document is the on-disk layout: tasks keyed by ID plus a format version.
type document struct {
	Tasks   map[string]*domain.Task `json:"tasks"`
	Version int                     `json:"version"`
}

// formatVersion is the file format version written by this package.
const formatVersion = 1

// Store implements domain.TaskRepository using a JSON file.
// Every operation holds a flock on a sidecar lock file, so concurrent
// processes see whole-file read-modify-write transactions.
type Store struct {
	path string
}

// Ensure Store implements TaskRepository and StoreInitializer.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// New creates a new Store for the given file path.
// The file must be created with Initialize before use.
func New(path string) *Store {
	return &Store{path: path}
}

// FindMany retrieves tasks matching the filter.
func (s *Store) FindMany(_ context.Context, filter domain.TaskFilter, opts domain.FindOptions) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.view(func(doc *document) error {
		for _, t := range doc.Tasks {
			if filter.Matches(t) {
				tasks = append(tasks, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	domain.SortTasks(tasks, opts.NewestFirst)
	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

// FindOne retrieves a task by ID. Returns nil if not found.
func (s *Store) FindOne(_ context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.view(func(doc *document) error {
		task = doc.Tasks[id]
		return nil
	})
	return task, err
}

// Count returns the number of tasks matching the filter.
func (s *Store) Count(_ context.Context, filter domain.TaskFilter) (int, error) {
	n := 0
	err := s.view(func(doc *document) error {
		for _, t := range doc.Tasks {
			if filter.Matches(t) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// AggregateBy counts tasks matching the filter per value of field.
func (s *Store) AggregateBy(_ context.Context, field domain.TaskField, filter domain.TaskFilter) (map[string]int, error) {
	if !field.IsValid() {
		return nil, fmt.Errorf("aggregate by %q: unsupported field", field)
	}
	counts := make(map[string]int)
	err := s.view(func(doc *document) error {
		for _, t := range doc.Tasks {
			if filter.Matches(t) {
				counts[field.ValueOf(t)]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Insert stores a new task. Fails if the ID is already taken.
func (s *Store) Insert(_ context.Context, task *domain.Task) error {
	return s.update(func(doc *document) error {
		if _, ok := doc.Tasks[task.ID]; ok {
			return fmt.Errorf("insert task %s: duplicate id", task.ID)
		}
		doc.Tasks[task.ID] = task
		return nil
	})
}

// Save replaces an existing task.
func (s *Store) Save(_ context.Context, task *domain.Task) error {
	return s.update(func(doc *document) error {
		if _, ok := doc.Tasks[task.ID]; !ok {
			return domain.ErrTaskNotFound
		}
		doc.Tasks[task.ID] = task
		return nil
	})
}

// Delete removes a task by ID. Deleting a missing task is a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	return s.update(func(doc *document) error {
		delete(doc.Tasks, id)
		return nil
	})
}

// IsInitialized reports whether the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize writes an empty store file unless one already exists.
func (s *Store) Initialize(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	unlock, err := s.lock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock()

	if s.IsInitialized() {
		return nil
	}
	return s.flush(&document{Tasks: map[string]*domain.Task{}, Version: formatVersion})
}

// view runs fn on the current document under a shared lock.
func (s *Store) view(fn func(*document) error) error {
	unlock, err := s.lock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update runs fn under an exclusive lock and persists the document
// if fn succeeds.
func (s *Store) update(fn func(*document) error) error {
	unlock, err := s.lock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.flush(doc)
}

// lock takes a flock on the sidecar "<path>.lock" file and returns its release func.
func (s *Store) lock(how int) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	fd := int(f.Fd())
	if err := syscall.Flock(fd, how); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock store: %w", err)
	}

	return func() {
		_ = syscall.Flock(fd, syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}

func (s *Store) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, domain.ErrNotInitialized
	case err != nil:
		return nil, fmt.Errorf("read store: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	if doc.Tasks == nil {
		doc.Tasks = map[string]*domain.Task{}
	}
	// The map key is authoritative for the ID.
	for id, t := range doc.Tasks {
		t.ID = id
	}
	return doc, nil
}

// flush replaces the store file atomically via a temp file and rename.
func (s *Store) flush(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
