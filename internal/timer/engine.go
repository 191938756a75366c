// Package timer tracks wall-clock elapsed time for at most one active task.
// Elapsed time is always recomputed from the activation instant, so tick
// scheduling delays never accumulate as drift.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/store"
)

// tickInterval bounds how stale the synced elapsed value can be.
const tickInterval = time.Second

// Clock abstracts wall-clock time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Engine owns the single-slot active-timer register. Starting a timer while
// another is running stops the previous one first.
type Engine struct {
	store *store.Store
	clock Clock
	log   *zap.Logger

	mu        sync.Mutex
	activeID  string
	base      int // task's persisted TimeSpent when activated
	startedAt time.Time
}

// New creates an engine bound to the store. The engine registers itself so
// completing the active task clears its timer.
func New(s *store.Store, clock Clock, log *zap.Logger) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{store: s, clock: clock, log: log}
	s.SetCompletionHook(e.clearIfActive)
	return e
}

// Start activates the timer for the task. Any previously active timer is
// stopped first; there is never more than one.
func (e *Engine) Start(ctx context.Context, id string) error {
	task, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("task %s not found", id)
	}

	e.mu.Lock()
	prev := e.activeID
	e.mu.Unlock()

	if prev != "" && prev != id {
		if err := e.Stop(ctx, prev); err != nil {
			e.log.Warn("failed to stop previous timer", zap.String("id", prev), zap.Error(err))
		}
	}

	now := e.clock.Now()
	e.mu.Lock()
	e.activeID = id
	e.base = task.TimeSpent
	e.startedAt = now
	e.mu.Unlock()

	// Clearing the stopped label reopens the start/stop mark pair, so a
	// restarted task reads as running again from other processes.
	return e.store.Update(ctx, id, store.TaskPatch{
		TimerStartedAt: store.String(models.ClockTime(now)),
		TimerStoppedAt: store.String(""),
	})
}

// Stop deactivates the timer for the task, pushing the final elapsed value
// and recording the stopped-at label.
func (e *Engine) Stop(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.activeID != id {
		e.mu.Unlock()
		return fmt.Errorf("timer is not running for task %s", id)
	}
	elapsed := e.elapsedLocked()
	e.activeID = ""
	e.mu.Unlock()

	e.store.SyncElapsedTime(id, elapsed)
	return e.store.Update(ctx, id, store.TaskPatch{
		TimerStoppedAt: store.String(models.ClockTime(e.clock.Now())),
	})
}

// Active returns the id of the task whose timer is running, or "".
func (e *Engine) Active() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// Elapsed returns the current elapsed seconds for the active task: the base
// captured at activation plus the wall-clock seconds since.
func (e *Engine) Elapsed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeID == "" {
		return 0
	}
	return e.elapsedLocked()
}

func (e *Engine) elapsedLocked() int {
	return e.base + int(e.clock.Now().Sub(e.startedAt)/time.Second)
}

// Tick pushes the recomputed elapsed value for the active task into the
// store. It is a no-op when no timer is running.
func (e *Engine) Tick() {
	e.mu.Lock()
	id := e.activeID
	var elapsed int
	if id != "" {
		elapsed = e.elapsedLocked()
	}
	e.mu.Unlock()

	if id == "" {
		return
	}
	e.store.SyncElapsedTime(id, elapsed)
}

// Run ticks once per second until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// clearIfActive drops the active slot when the task completes. The stopped-at
// label is written by the completion update path, not here.
func (e *Engine) clearIfActive(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeID == id {
		e.activeID = ""
	}
}
