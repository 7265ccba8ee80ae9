// Package mongostore provides a MongoDB implementation of TaskRepository.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Store implements domain.TaskRepository on a MongoDB collection.
// MongoDB keeps times at millisecond precision.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Ensure Store implements TaskRepository and StoreInitializer.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Connect dials the server at uri and returns a store on database.collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Initialize creates the indexes used by filters and ordering.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "dueDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// FindMany retrieves tasks matching the filter.
func (s *Store) FindMany(ctx context.Context, filter domain.TaskFilter, opts domain.FindOptions) ([]*domain.Task, error) {
	cursor, err := s.collection.Find(ctx, buildFilter(filter), findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*domain.Task
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toTask())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tasks, nil
}

// FindOne retrieves a task by ID. Returns nil if not found.
func (s *Store) FindOne(ctx context.Context, id string) (*domain.Task, error) {
	var doc taskDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return doc.toTask(), nil
}

// Count returns the number of tasks matching the filter.
func (s *Store) Count(ctx context.Context, filter domain.TaskFilter) (int, error) {
	n, err := s.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return int(n), nil
}

// AggregateBy counts tasks matching the filter per value of field.
func (s *Store) AggregateBy(ctx context.Context, field domain.TaskField, filter domain.TaskFilter) (map[string]int, error) {
	pipeline, err := aggregatePipeline(field, filter)
	if err != nil {
		return nil, err
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tasks: %w", err)
	}
	var groups []struct {
		Value string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode aggregate: %w", err)
	}

	counts := make(map[string]int, len(groups))
	for _, g := range groups {
		counts[g.Value] = g.Count
	}
	return counts, nil
}

// Insert stores a new task. Fails if the ID is already taken.
func (s *Store) Insert(ctx context.Context, task *domain.Task) error {
	if _, err := s.collection.InsertOne(ctx, newTaskDocument(task)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert task %s: duplicate id", task.ID)
		}
		return fmt.Errorf("insert task %s: %w", task.ID, err)
	}
	return nil
}

// Save replaces an existing task.
func (s *Store) Save(ctx context.Context, task *domain.Task) error {
	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, newTaskDocument(task))
	if err != nil {
		return fmt.Errorf("replace task %s: %w", task.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by ID. Deleting a missing task is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// taskDocument is the stored form of a task.
// Fields are ordered to minimize memory padding.
type taskDocument struct {
	DueDate     time.Time           `bson:"dueDate"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
	ID          string              `bson:"_id"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	CreatedBy   string              `bson:"createdBy"`
	Priority    string              `bson:"priority"`
	Status      string              `bson:"status"`
	AssignedTo  []string            `bson:"assignedTo"`
	Attachments []string            `bson:"attachments"`
	Checklist   []checklistDocument `bson:"todoChecklist"`
	Progress    int                 `bson:"progress"`
}

type checklistDocument struct {
	Text      string `bson:"text"`
	Completed bool   `bson:"completed"`
}

func newTaskDocument(t *domain.Task) taskDocument {
	doc := taskDocument{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		AssignedTo:  nonNil(t.AssignedTo),
		Attachments: nonNil(t.Attachments),
		Checklist:   make([]checklistDocument, len(t.Checklist)),
		Progress:    t.Progress,
	}
	for i, item := range t.Checklist {
		doc.Checklist[i] = checklistDocument{Text: item.Title, Completed: item.Completed}
	}
	return doc
}

func (d taskDocument) toTask() *domain.Task {
	t := &domain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		Priority:    domain.Priority(d.Priority),
		Status:      domain.Status(d.Status),
		DueDate:     d.DueDate.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		AssignedTo:  nonNil(d.AssignedTo),
		Attachments: nonNil(d.Attachments),
		Checklist:   make([]domain.ChecklistItem, len(d.Checklist)),
		Progress:    d.Progress,
	}
	for i, item := range d.Checklist {
		t.Checklist[i] = domain.ChecklistItem{Title: item.Text, Completed: item.Completed}
	}
	return t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var fieldPaths = map[domain.TaskField]string{
	domain.FieldStatus:   "$status",
	domain.FieldPriority: "$priority",
}

// buildFilter translates a filter into a query document.
func buildFilter(f domain.TaskFilter) bson.D {
	q := bson.D{}
	status := bson.D{}
	if f.Status != "" {
		status = append(status, bson.E{Key: "$eq", Value: string(f.Status)})
	}
	if f.StatusNot != "" {
		status = append(status, bson.E{Key: "$ne", Value: string(f.StatusNot)})
	}
	if len(status) > 0 {
		q = append(q, bson.E{Key: "status", Value: status})
	}
	if f.Priority != "" {
		q = append(q, bson.E{Key: "priority", Value: string(f.Priority)})
	}
	if f.AssignedTo != "" {
		q = append(q, bson.E{Key: "assignedTo", Value: f.AssignedTo})
	}
	due := bson.D{}
	if f.DueBefore != nil {
		due = append(due, bson.E{Key: "$lt", Value: *f.DueBefore})
	}
	if f.DueAfter != nil {
		due = append(due, bson.E{Key: "$gte", Value: *f.DueAfter})
	}
	if len(due) > 0 {
		q = append(q, bson.E{Key: "dueDate", Value: due})
	}
	return q
}

func findOptions(opts domain.FindOptions) *options.FindOptions {
	direction := 1
	if opts.NewestFirst {
		direction = -1
	}
	o := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: direction},
		{Key: "_id", Value: 1},
	})
	if opts.Limit > 0 {
		o.SetLimit(int64(opts.Limit))
	}
	return o
}

// aggregatePipeline builds a $match + $group pipeline counting tasks per field value.
func aggregatePipeline(field domain.TaskField, filter domain.TaskFilter) (mongo.Pipeline, error) {
	path, ok := fieldPaths[field]
	if !ok {
		return nil, fmt.Errorf("aggregate by %q: unsupported field", field)
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: buildFilter(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: path},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}, nil
}
