// Package sqlitestore provides a SQLite implementation of TaskRepository.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Store implements domain.TaskRepository on a SQLite database.
// Times are stored as Unix nanoseconds and read back in UTC.
type Store struct {
	db *sql.DB
}

// Ensure Store implements TaskRepository and StoreInitializer.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	priority    TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_by  TEXT NOT NULL,
	due_date    INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	progress    INTEGER NOT NULL DEFAULT 0,
	attachments TEXT NOT NULL DEFAULT '[]',
	checklist   TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at, id);
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);

CREATE TABLE IF NOT EXISTS task_assignees (
	task_id  TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id  TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (task_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_task_assignees_user ON task_assignees(user_id);
`

const taskColumns = `id, title, description, priority, status, created_by,
	due_date, created_at, updated_at, progress, attachments, checklist`

// New opens the database at path. Call Initialize to create the schema.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	dsn := "file:" + path + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers inside the process.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the tables if they don't exist.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// FindMany retrieves tasks matching the filter.
func (s *Store) FindMany(ctx context.Context, filter domain.TaskFilter, opts domain.FindOptions) ([]*domain.Task, error) {
	where, args := buildWhere(filter)

	order := "ASC"
	if opts.NewestFirst {
		order = "DESC"
	}
	query := fmt.Sprintf("SELECT %s FROM tasks%s ORDER BY created_at %s, id ASC", taskColumns, where, order)
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	_ = rows.Close()

	if err := s.loadAssignees(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOne retrieves a task by ID. Returns nil if not found.
func (s *Store) FindOne(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadAssignees(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// Count returns the number of tasks matching the filter.
func (s *Store) Count(ctx context.Context, filter domain.TaskFilter) (int, error) {
	where, args := buildWhere(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// AggregateBy counts tasks matching the filter per value of field.
func (s *Store) AggregateBy(ctx context.Context, field domain.TaskField, filter domain.TaskFilter) (map[string]int, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return nil, fmt.Errorf("aggregate by %q: unsupported field", field)
	}

	where, args := buildWhere(filter)
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM tasks%s GROUP BY %s", column, where, column)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			value string
			n     int
		)
		if err := rows.Scan(&value, &n); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		counts[value] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate: %w", err)
	}
	return counts, nil
}

// Insert stores a new task. Fails if the ID is already taken.
func (s *Store) Insert(ctx context.Context, task *domain.Task) error {
	attachments, checklist, err := encodeLists(task)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			task.ID, task.Title, task.Description, string(task.Priority), string(task.Status), task.CreatedBy,
			task.DueDate.UnixNano(), task.CreatedAt.UnixNano(), task.UpdatedAt.UnixNano(), task.Progress,
			attachments, checklist,
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", task.ID, err)
		}
		return insertAssignees(ctx, tx, task)
	})
}

// Save replaces an existing task and its assignees.
func (s *Store) Save(ctx context.Context, task *domain.Task) error {
	attachments, checklist, err := encodeLists(task)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?,
			created_by = ?, due_date = ?, created_at = ?, updated_at = ?, progress = ?, attachments = ?, checklist = ?
			WHERE id = ?`,
			task.Title, task.Description, string(task.Priority), string(task.Status), task.CreatedBy,
			task.DueDate.UnixNano(), task.CreatedAt.UnixNano(), task.UpdatedAt.UnixNano(), task.Progress,
			attachments, checklist, task.ID,
		)
		if err != nil {
			return fmt.Errorf("update task %s: %w", task.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update task %s: %w", task.ID, err)
		}
		if affected == 0 {
			return domain.ErrTaskNotFound
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM task_assignees WHERE task_id = ?", task.ID); err != nil {
			return fmt.Errorf("clear assignees: %w", err)
		}
		return insertAssignees(ctx, tx, task)
	})
}

// Delete removes a task by ID. Deleting a missing task is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM task_assignees WHERE task_id = ?", id); err != nil {
			return fmt.Errorf("delete assignees: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete task %s: %w", id, err)
		}
		return nil
	})
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) loadAssignees(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Task, len(tasks))
	placeholders := make([]string, len(tasks))
	args := make([]any, len(tasks))
	for i, t := range tasks {
		t.AssignedTo = []string{}
		byID[t.ID] = t
		placeholders[i] = "?"
		args[i] = t.ID
	}

	query := "SELECT task_id, user_id FROM task_assignees WHERE task_id IN (" +
		strings.Join(placeholders, ", ") + ") ORDER BY task_id, position"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, userID string
		if err := rows.Scan(&taskID, &userID); err != nil {
			return fmt.Errorf("scan assignee: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.AssignedTo = append(t.AssignedTo, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate assignees: %w", err)
	}
	return nil
}

func insertAssignees(ctx context.Context, tx *sql.Tx, task *domain.Task) error {
	for i, userID := range task.AssignedTo {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO task_assignees (task_id, user_id, position) VALUES (?, ?, ?)",
			task.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("insert assignee %s: %w", userID, err)
		}
	}
	return nil
}

var fieldColumns = map[domain.TaskField]string{
	domain.FieldStatus:   "status",
	domain.FieldPriority: "priority",
}

// buildWhere translates a filter into a WHERE clause (with a leading space) and its arguments.
func buildWhere(f domain.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.StatusNot != "" {
		conds = append(conds, "status <> ?")
		args = append(args, string(f.StatusNot))
	}
	if f.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, string(f.Priority))
	}
	if f.AssignedTo != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = tasks.id AND a.user_id = ?)")
		args = append(args, f.AssignedTo)
	}
	if f.DueBefore != nil {
		conds = append(conds, "due_date < ?")
		args = append(args, f.DueBefore.UnixNano())
	}
	if f.DueAfter != nil {
		conds = append(conds, "due_date >= ?")
		args = append(args, f.DueAfter.UnixNano())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t                          domain.Task
		priority, status           string
		due, created, updated      int64
		attachments, checklistJSON string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &t.CreatedBy,
		&due, &created, &updated, &t.Progress, &attachments, &checklistJSON)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	t.DueDate = fromNanos(due)
	t.CreatedAt = fromNanos(created)
	t.UpdatedAt = fromNanos(updated)
	if err := json.Unmarshal([]byte(attachments), &t.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments of %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(checklistJSON), &t.Checklist); err != nil {
		return nil, fmt.Errorf("decode checklist of %s: %w", t.ID, err)
	}
	return &t, nil
}

func encodeLists(task *domain.Task) (string, string, error) {
	attachments := task.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	checklist := task.Checklist
	if checklist == nil {
		checklist = []domain.ChecklistItem{}
	}

	a, err := json.Marshal(attachments)
	if err != nil {
		return "", "", fmt.Errorf("encode attachments: %w", err)
	}
	c, err := json.Marshal(checklist)
	if err != nil {
		return "", "", fmt.Errorf("encode checklist: %w", err)
	}
	return string(a), string(c), nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
