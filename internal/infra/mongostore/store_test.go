package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/runoshun/taskdeck/internal/domain"
	"github.com/runoshun/taskdeck/internal/testutil"
)

func TestBuildFilter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter domain.TaskFilter
		want   bson.D
	}{
		{"empty", domain.TaskFilter{}, bson.D{}},
		{
			"status and assignee",
			domain.TaskFilter{Status: domain.StatusPending, AssignedTo: "u1"},
			bson.D{
				{Key: "status", Value: bson.D{{Key: "$eq", Value: "pending"}}},
				{Key: "assignedTo", Value: "u1"},
			},
		},
		{
			"overdue",
			domain.TaskFilter{DueBefore: &now, StatusNot: domain.StatusCompleted},
			bson.D{
				{Key: "status", Value: bson.D{{Key: "$ne", Value: "completed"}}},
				{Key: "dueDate", Value: bson.D{{Key: "$lt", Value: now}}},
			},
		},
		{
			"priority and due window",
			domain.TaskFilter{Priority: domain.PriorityHigh, DueAfter: &now},
			bson.D{
				{Key: "priority", Value: "high"},
				{Key: "dueDate", Value: bson.D{{Key: "$gte", Value: now}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.filter))
		})
	}
}

func TestAggregatePipeline(t *testing.T) {
	// Execute
	pipeline, err := aggregatePipeline(domain.FieldPriority, domain.TaskFilter{AssignedTo: "u1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "assignedTo", Value: "u1"}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$priority"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}, pipeline)
}

func TestAggregatePipeline_UnsupportedField(t *testing.T) {
	_, err := aggregatePipeline(domain.TaskField("title"), domain.TaskFilter{})

	assert.Error(t, err)
}

func TestFindOptions(t *testing.T) {
	o := findOptions(domain.FindOptions{NewestFirst: true, Limit: 10})

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, o.Sort)
	require.NotNil(t, o.Limit)
	assert.Equal(t, int64(10), *o.Limit)

	unlimited := findOptions(domain.FindOptions{})
	assert.Nil(t, unlimited.Limit)
}

func TestTaskDocument_RoundTrip(t *testing.T) {
	// Setup
	task := testutil.ContractTask("a", testutil.ContractBase, domain.StatusInProgress, domain.PriorityMedium, "u1")
	task.Checklist = []domain.ChecklistItem{{Title: "draft", Completed: true}, {Title: "ship"}}
	task.Progress = 50

	// Execute
	raw, err := bson.Marshal(newTaskDocument(task))
	require.NoError(t, err)
	var doc taskDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	// Assert
	assert.Equal(t, task, doc.toTask())

	var stored bson.M
	require.NoError(t, bson.Unmarshal(raw, &stored))
	assert.Equal(t, "a", stored["_id"])
	assert.Contains(t, stored, "todoChecklist")
}
