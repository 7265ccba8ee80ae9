package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func TestStore_Contract(t *testing.T) {
	testutil.RunTaskRepositoryContract(t, func(t *testing.T) domain.TaskRepository {
		return newTestStore(t)
	})
}

func TestStore_Initialize(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	store := New(path)
	assert.False(t, store.IsInitialized())

	// Execute
	require.NoError(t, store.Initialize(context.Background()))

	// Assert
	_, err := os.Stat(path)
	require.NoError(t, err, "store file not created")
	assert.True(t, store.IsInitialized())

	// Initialize again should be idempotent
	require.NoError(t, store.Insert(context.Background(),
		testutil.ContractTask("a", testutil.ContractBase, domain.StatusPending, domain.PriorityLow)))
	require.NoError(t, store.Initialize(context.Background()))
	n, err := store.Count(context.Background(), domain.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "existing data kept")
}

func TestStore_NotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "tasks.json"))

	_, err := store.FindMany(context.Background(), domain.TaskFilter{}, domain.FindOptions{})

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o600))

	_, err := store.Count(context.Background(), domain.TaskFilter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse store file")
}

func TestStore_AggregateBy_UnsupportedField(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AggregateBy(context.Background(), domain.TaskField("title"), domain.TaskFilter{})

	assert.Error(t, err)
}

func TestStore_FileFormat(t *testing.T) {
	// Setup
	store := newTestStore(t)
	task := testutil.ContractTask("a", testutil.ContractBase, domain.StatusPending, domain.PriorityMedium, "u1")

	// Execute
	require.NoError(t, store.Insert(context.Background(), task))

	// Assert
	content, err := os.ReadFile(store.path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"todoChecklist": []`)
	assert.Contains(t, string(content), `"assignedTo": [`)
	assert.Contains(t, string(content), `"version": 1`)
	_, err = os.Stat(store.path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file renamed away")
}

func TestStore_ConcurrentInserts(t *testing.T) {
	store := newTestStore(t)
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Insert(context.Background(),
				testutil.ContractTask(id, testutil.ContractBase, domain.StatusPending, domain.PriorityLow)))
		}()
	}
	wg.Wait()

	n, err := store.Count(context.Background(), domain.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, len(ids), n, "no write is lost")
}
