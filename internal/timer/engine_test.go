package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/remote"
	"github.com/sokawa/dayboard/internal/store"
)

// memRemote is an always-succeeding in-memory remote.
type memRemote struct {
	mu   sync.Mutex
	rows map[string]models.Task
}

func newMemRemote() *memRemote {
	return &memRemote{rows: map[string]models.Task{}}
}

func (m *memRemote) SelectTasks(ctx context.Context, principalID string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.rows {
		out = append(out, t)
	}
	return out, nil
}

func (m *memRemote) InsertTask(ctx context.Context, task models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[task.ID] = task
	return nil
}

func (m *memRemote) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	return nil
}

func (m *memRemote) UpsertTask(ctx context.Context, task models.Task) error {
	return m.InsertTask(ctx, task)
}

func (m *memRemote) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memRemote) Subscribe(principalID string) (<-chan remote.ChangeEvent, func()) {
	ch := make(chan remote.ChangeEvent)
	return ch, func() {}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T) (*Engine, *store.Store, *fakeClock) {
	t.Helper()
	s := store.New(newMemRemote(), "user-1", nil)
	clock := newFakeClock()
	return New(s, clock, nil), s, clock
}

func addTask(t *testing.T, s *store.Store, title string, timeSpent int) string {
	t.Helper()
	task, err := s.Add(context.Background(), store.AddRequest{Title: title})
	require.NoError(t, err)
	if timeSpent > 0 {
		s.SyncElapsedTime(task.ID, timeSpent)
	}
	return task.ID
}

func TestElapsed_RecomputedFromStartInstant(t *testing.T) {
	e, s, clock := newTestEngine(t)
	id := addTask(t, s, "deep work", 120)

	require.NoError(t, e.Start(context.Background(), id))
	assert.Equal(t, 120, e.Elapsed())

	// Elapsed tracks the wall clock, no matter how many ticks ran.
	clock.Advance(7 * time.Second)
	assert.Equal(t, 127, e.Elapsed())

	clock.Advance(53 * time.Second)
	e.Tick()
	assert.Equal(t, 180, e.Elapsed())

	got, _ := s.Get(id)
	assert.Equal(t, 180, got.TimeSpent)
}

func TestStart_RecordsStartedLabel(t *testing.T) {
	e, s, _ := newTestEngine(t)
	id := addTask(t, s, "labelled", 0)

	require.NoError(t, e.Start(context.Background(), id))

	got, _ := s.Get(id)
	assert.Equal(t, "09:00", got.TimerStartedAt)
}

func TestStart_StopsPreviousTimer(t *testing.T) {
	e, s, clock := newTestEngine(t)
	a := addTask(t, s, "task a", 0)
	b := addTask(t, s, "task b", 0)

	require.NoError(t, e.Start(context.Background(), a))
	clock.Advance(10 * time.Second)

	require.NoError(t, e.Start(context.Background(), b))
	assert.Equal(t, b, e.Active())

	// A was stopped: its stopped-at label is set and its elapsed landed.
	gotA, _ := s.Get(a)
	assert.Equal(t, "09:00", gotA.TimerStartedAt)
	assert.Equal(t, "09:00", gotA.TimerStoppedAt)
	assert.Equal(t, 10, gotA.TimeSpent)
}

func TestStart_SameTaskKeepsRunning(t *testing.T) {
	e, s, clock := newTestEngine(t)
	id := addTask(t, s, "restart", 0)

	require.NoError(t, e.Start(context.Background(), id))
	clock.Advance(5 * time.Second)
	require.NoError(t, e.Start(context.Background(), id))

	got, _ := s.Get(id)
	assert.Empty(t, got.TimerStoppedAt)
	assert.Equal(t, id, e.Active())
}

func TestStop_PushesFinalElapsed(t *testing.T) {
	e, s, clock := newTestEngine(t)
	id := addTask(t, s, "wrap up", 60)

	require.NoError(t, e.Start(context.Background(), id))
	clock.Advance(30 * time.Second)
	require.NoError(t, e.Stop(context.Background(), id))

	assert.Empty(t, e.Active())
	got, _ := s.Get(id)
	assert.Equal(t, 90, got.TimeSpent)
	assert.NotEmpty(t, got.TimerStoppedAt)
}

func TestStop_NotRunningIsAnError(t *testing.T) {
	e, s, _ := newTestEngine(t)
	id := addTask(t, s, "idle", 0)

	err := e.Stop(context.Background(), id)
	assert.Error(t, err)
}

func TestCompletion_ClearsActiveTimer(t *testing.T) {
	e, s, clock := newTestEngine(t)
	id := addTask(t, s, "almost done", 0)

	require.NoError(t, e.Start(context.Background(), id))
	clock.Advance(3 * time.Second)

	require.NoError(t, s.ToggleCompletion(context.Background(), id))
	assert.Empty(t, e.Active())

	// Subsequent ticks no longer accumulate time.
	clock.Advance(time.Minute)
	e.Tick()
	got, _ := s.Get(id)
	assert.Less(t, got.TimeSpent, 5)
}

func TestCompletion_OfOtherTaskKeepsTimer(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addTask(t, s, "running", 0)
	b := addTask(t, s, "unrelated", 0)

	require.NoError(t, e.Start(context.Background(), a))
	require.NoError(t, s.ToggleCompletion(context.Background(), b))
	assert.Equal(t, a, e.Active())
}

func TestStart_AfterStopReopensMarkPair(t *testing.T) {
	e, s, clock := newTestEngine(t)
	id := addTask(t, s, "resumed", 0)

	require.NoError(t, e.Start(context.Background(), id))
	clock.Advance(30 * time.Second)
	require.NoError(t, e.Stop(context.Background(), id))

	got, _ := s.Get(id)
	require.NotEmpty(t, got.TimerStoppedAt)

	clock.Advance(time.Minute)
	require.NoError(t, e.Start(context.Background(), id))

	got, _ = s.Get(id)
	assert.Equal(t, "09:01", got.TimerStartedAt)
	assert.Empty(t, got.TimerStoppedAt, "an open mark pair is how other processes see a running timer")
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	e, s, clock := newTestEngine(t)
	id := addTask(t, s, "background", 0)

	require.NoError(t, e.Start(context.Background(), id))
	clock.Advance(42 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, _ := s.Get(id)
		return got.TimeSpent == 42
	}, 3*time.Second, 20*time.Millisecond, "a tick should push the recomputed elapsed value")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
