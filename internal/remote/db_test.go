package remote

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokawa/dayboard/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndSelect_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := models.Task{
		ID:            "t1",
		PrincipalID:   "alice",
		Title:         "Write weekly report",
		CustomerName:  "Acme",
		Date:          "2026-08-31",
		StartTime:     "09:00",
		EstimatedTime: 1800,
		Tags:          []string{"writing", "weekly"},
	}
	require.NoError(t, db.InsertTask(ctx, task))

	tasks, err := db.SelectTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "Write weekly report", got.Title)
	assert.Equal(t, "Acme", got.CustomerName)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, []string{"writing", "weekly"}, got.Tags)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSelectTasks_OrderAndPrincipalScope(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertTask(ctx, models.Task{ID: "old", PrincipalID: "alice", Title: "old", Date: "2026-08-29"}))
	require.NoError(t, db.InsertTask(ctx, models.Task{ID: "new", PrincipalID: "alice", Title: "new", Date: "2026-08-31"}))
	require.NoError(t, db.InsertTask(ctx, models.Task{ID: "other", PrincipalID: "bob", Title: "other", Date: "2026-08-31"}))

	tasks, err := db.SelectTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "new", tasks[0].ID)
	assert.Equal(t, "old", tasks[1].ID)
}

func TestUpdateTask_SparsePatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertTask(ctx, models.Task{
		ID: "t1", PrincipalID: "alice", Title: "draft", Date: "2026-08-31", TimeSpent: 60,
	}))

	err := db.UpdateTask(ctx, "t1", map[string]any{"time_spent": 300})
	require.NoError(t, err)

	tasks, err := db.SelectTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 300, tasks[0].TimeSpent)
	assert.Equal(t, "draft", tasks[0].Title, "untouched columns keep their values")
}

func TestUpdateTask_MissingRow(t *testing.T) {
	db := openTestDB(t)

	err := db.UpdateTask(context.Background(), "nope", map[string]any{"title": "x"})
	assert.Error(t, err)
}

func TestDeleteTask_RemovesRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InsertTask(ctx, models.Task{ID: "t1", PrincipalID: "alice", Title: "gone", Date: "2026-08-31"}))
	require.NoError(t, db.DeleteTask(ctx, "t1"))

	tasks, err := db.SelectTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSubscribe_ReceivesCommittedMutations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ch, cancel := db.Subscribe("alice")
	defer cancel()

	require.NoError(t, db.InsertTask(ctx, models.Task{ID: "t1", PrincipalID: "alice", Title: "one", Date: "2026-08-31"}))
	require.NoError(t, db.UpdateTask(ctx, "t1", map[string]any{"completed": true}))
	require.NoError(t, db.DeleteTask(ctx, "t1"))

	ev := recvEvent(t, ch)
	assert.Equal(t, EventInsert, ev.Type)
	assert.Equal(t, "one", ev.Task.Title)

	ev = recvEvent(t, ch)
	assert.Equal(t, EventUpdate, ev.Type)
	assert.True(t, ev.Task.Completed, "update events carry the full post-update row")

	ev = recvEvent(t, ch)
	assert.Equal(t, EventDelete, ev.Type)
	assert.Equal(t, "t1", ev.Task.ID)
}

func TestSubscribe_ScopedToPrincipal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	aliceCh, cancelAlice := db.Subscribe("alice")
	defer cancelAlice()
	bobCh, cancelBob := db.Subscribe("bob")
	defer cancelBob()

	require.NoError(t, db.InsertTask(ctx, models.Task{ID: "t1", PrincipalID: "alice", Title: "mine", Date: "2026-08-31"}))

	ev := recvEvent(t, aliceCh)
	assert.Equal(t, "mine", ev.Task.Title)

	select {
	case ev := <-bobCh:
		t.Fatalf("bob received alice's event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	db := openTestDB(t)

	ch, cancel := db.Subscribe("alice")
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Cancelling twice is safe
	cancel()
}

func recvEvent(t *testing.T, ch <-chan ChangeEvent) ChangeEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return ChangeEvent{}
	}
}
