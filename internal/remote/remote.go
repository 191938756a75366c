// Package remote implements the row-store collaborator the task store syncs
// against: select/insert/update/upsert/delete on a tasks collection scoped by
// principal id, plus a subscribable change feed.
package remote

import (
	"context"

	"github.com/sokawa/dayboard/internal/models"
)

// EventType classifies a change-feed notification.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// ChangeEvent is one row-level notification delivered on the change feed.
type ChangeEvent struct {
	Type EventType
	Task models.Task
}

// Store is the remote persistence collaborator. The in-memory task list is a
// cache over it; the store is the system of record.
type Store interface {
	// SelectTasks returns all tasks for the principal, ordered by date
	// descending then creation time descending.
	SelectTasks(ctx context.Context, principalID string) ([]models.Task, error)

	// InsertTask persists a new task row.
	InsertTask(ctx context.Context, task models.Task) error

	// UpdateTask applies a sparse patch to a task row. Only the columns in
	// fields are touched; absent columns keep their remote values.
	UpdateTask(ctx context.Context, id string, fields map[string]any) error

	// UpsertTask inserts the task or replaces the existing row with the
	// same id.
	UpsertTask(ctx context.Context, task models.Task) error

	// DeleteTask removes a task row by id.
	DeleteTask(ctx context.Context, id string) error

	// Subscribe returns a change feed filtered to the principal. The
	// returned func cancels the subscription. Events are delivered in the
	// order the mutations were committed.
	Subscribe(principalID string) (<-chan ChangeEvent, func())
}
