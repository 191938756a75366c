// Package store owns the authoritative in-memory task list for the signed-in
// principal. Mutations apply optimistically and are reconciled with the
// remote store: add and delete roll back or reload on remote failure, update
// reloads, and a change feed folds in edits made by other sessions.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/remote"
)

// defaultSyncDelay is the trailing debounce window for remote elapsed-time
// writes.
const defaultSyncDelay = 5 * time.Second

// Store keeps the task list for one principal consistent with the remote
// store. All access to the list goes through its methods.
type Store struct {
	remote      remote.Store
	principalID string
	log         *zap.Logger

	mu    sync.Mutex
	tasks []models.Task

	// onComplete is invoked (outside the list lock) when a task flips to
	// completed, so the timer engine can clear an active timer.
	onComplete func(id string)

	syncDelay      time.Duration
	syncMu         sync.Mutex
	syncTimer      *time.Timer
	syncGen        uint64
	pendingID      string
	pendingSeconds int
}

// New creates a store for the principal. Call Load before reading tasks.
func New(r remote.Store, principalID string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		remote:      r,
		principalID: principalID,
		log:         log,
		syncDelay:   defaultSyncDelay,
	}
}

// SetCompletionHook registers a callback invoked when a task is completed.
func (s *Store) SetCompletionHook(fn func(id string)) {
	s.onComplete = fn
}

// Load fetches all tasks for the principal and replaces the in-memory list
// atomically. On failure the prior list is left untouched and the error is
// returned.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.remote.SelectTasks(ctx, s.principalID)
	if err != nil {
		s.log.Warn("task load failed", zap.Error(err))
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// AddRequest holds the data needed to create a new task.
type AddRequest struct {
	Title         string
	ProjectID     string
	Tags          []string
	EstimatedTime int
	Date          string
	StartTime     string
	IsRoutine     bool
	CustomerName  string
	ProjectName   string
	Details       string
}

// Add creates a task optimistically: it is prepended to the in-memory list
// immediately and rolled back if the remote insert fails. Title validation is
// the caller's concern.
func (s *Store) Add(ctx context.Context, req AddRequest) (*models.Task, error) {
	now := time.Now()

	task := models.Task{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		PrincipalID:   s.principalID,
		Title:         req.Title,
		CustomerName:  req.CustomerName,
		ProjectName:   req.ProjectName,
		Details:       req.Details,
		EstimatedTime: req.EstimatedTime,
		StartTime:     req.StartTime,
		Tags:          append([]string(nil), req.Tags...),
		ProjectID:     req.ProjectID,
		Date:          req.Date,
		IsRoutine:     req.IsRoutine,
	}
	if task.ProjectID == "" {
		task.ProjectID = models.DefaultProjectID
	}
	if task.EstimatedTime == 0 {
		task.EstimatedTime = models.DefaultEstimate
	}
	if task.Date == "" {
		task.Date = models.DateString(now)
	}
	if task.StartTime == "" {
		task.StartTime = models.ClockTime(now)
	}

	s.mu.Lock()
	s.tasks = append([]models.Task{task}, s.tasks...)
	s.mu.Unlock()

	if err := s.remote.InsertTask(ctx, task); err != nil {
		// Roll the optimistic entry back; the caller gets the failure.
		s.removeLocal(task.ID)
		s.log.Error("task insert failed", zap.String("id", task.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to add task: %w", err)
	}

	return &task, nil
}

// Update applies a sparse patch to the in-memory entry immediately, then
// sends exactly the patched fields to the remote store. A remote failure is
// resolved by reloading the whole list; there is no fine-grained rollback.
func (s *Store) Update(ctx context.Context, id string, patch TaskPatch) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("task %s not found", id)
	}
	patch.applyTo(&s.tasks[idx])
	calendarOrigin := s.tasks[idx].IsCalendarEvent()
	completed := patch.Completed != nil && *patch.Completed
	s.mu.Unlock()

	if completed && s.onComplete != nil {
		s.onComplete(id)
	}

	// Calendar-derived entries exist only in memory.
	if calendarOrigin {
		return nil
	}

	if err := s.remote.UpdateTask(ctx, id, patch.fields()); err != nil {
		s.log.Warn("task update failed, reloading", zap.String("id", id), zap.Error(err))
		if lerr := s.Load(ctx); lerr != nil {
			s.log.Error("reload after failed update also failed", zap.Error(lerr))
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// ToggleCompletion flips the completion flag. Completing stamps CompletedAt
// and, if unset, EndTime with the current time of day. Un-completing clears
// the flag but retains the previous CompletedAt as a record of the last
// completion.
func (s *Store) ToggleCompletion(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("task %s not found", id)
	}
	task := s.tasks[idx]
	s.mu.Unlock()

	now := time.Now()
	patch := TaskPatch{Completed: Bool(!task.Completed)}
	if !task.Completed {
		patch.CompletedAt = Time(now)
		if task.EndTime == "" {
			patch.EndTime = String(models.ClockTime(now))
		}
	}
	return s.Update(ctx, id, patch)
}

// Delete removes the task from the in-memory list immediately, then issues
// the remote delete. On failure the list is reloaded to restore the entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	removed, calendarOrigin := s.removeLocal(id)
	if !removed {
		return fmt.Errorf("task %s not found", id)
	}
	if calendarOrigin {
		return nil
	}

	if err := s.remote.DeleteTask(ctx, id); err != nil {
		s.log.Warn("task delete failed, reloading", zap.String("id", id), zap.Error(err))
		if lerr := s.Load(ctx); lerr != nil {
			s.log.Error("reload after failed delete also failed", zap.Error(lerr))
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// MergeExternalEvents replaces all previously merged calendar entries with
// the new set. An empty input performs no replacement, so a transient empty
// fetch does not clear events already on screen. The remote store is never
// touched.
func (s *Store) MergeExternalEvents(events []models.CalendarEvent) {
	if len(events) == 0 {
		return
	}

	merged := make([]models.Task, 0, len(events))
	for _, ev := range events {
		tags := append([]string(nil), ev.Tags...)
		hasTag := false
		for _, tag := range tags {
			if tag == models.CalendarTag {
				hasTag = true
			}
		}
		if !hasTag {
			tags = append(tags, models.CalendarTag)
		}

		task := models.Task{
			ID:          ev.ID,
			PrincipalID: s.principalID,
			Title:       ev.Title,
			Details:     ev.Description,
			StartTime:   ev.StartTime,
			EndTime:     ev.EndTime,
			Date:        ev.Date,
			Tags:        tags,
			ProjectID:   models.DefaultProjectID,
		}
		if secs := spanSeconds(ev.StartTime, ev.EndTime); secs > 0 {
			task.EstimatedTime = secs
		}
		merged = append(merged, task)
	}

	s.mu.Lock()
	kept := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.IsCalendarEvent() {
			kept = append(kept, t)
		}
	}
	s.tasks = append(merged, kept...)
	s.mu.Unlock()
}

// Run consumes the remote change feed until ctx is done. Remote-origin
// events always win over local optimistic state: inserts not present are
// prepended, updates replace the local entry wholesale, deletes remove it.
func (s *Store) Run(ctx context.Context) {
	ch, cancel := s.remote.Subscribe(s.principalID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.applyChange(ev)
		}
	}
}

// applyChange folds one change-feed event into the list.
func (s *Store) applyChange(ev remote.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(ev.Task.ID)
	switch ev.Type {
	case remote.EventInsert:
		if idx < 0 {
			s.tasks = append([]models.Task{ev.Task}, s.tasks...)
		}
	case remote.EventUpdate:
		if idx >= 0 {
			s.tasks[idx] = ev.Task
		}
	case remote.EventDelete:
		if idx >= 0 {
			s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		}
	}
}

// Tasks returns a copy of the current task list.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Task(nil), s.tasks...)
}

// TasksForDate returns a copy of the tasks on the given YYYY-MM-DD date.
func (s *Store) TasksForDate(date string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, false
	}
	return s.tasks[idx], true
}

// indexOf returns the list index for id, or -1. Callers hold s.mu.
func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// removeLocal removes the task from the in-memory list, reporting whether it
// was present and whether it was calendar-derived.
func (s *Store) removeLocal(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, false
	}
	calendarOrigin := s.tasks[idx].IsCalendarEvent()
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true, calendarOrigin
}

// spanSeconds returns the duration between two "HH:MM" times, wrapping past
// midnight when end is numerically smaller than start. Zero when either is
// unset or malformed.
func spanSeconds(start, end string) int {
	sm, ok1 := parseClockMinutes(start)
	em, ok2 := parseClockMinutes(end)
	if !ok1 || !ok2 {
		return 0
	}
	diff := em - sm
	if diff < 0 {
		diff += 24 * 60
	}
	return diff * 60
}

func parseClockMinutes(s string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
