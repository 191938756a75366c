package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SyncElapsedTime updates the in-memory time-spent immediately and coalesces
// the remote write behind a trailing debounce: one scheduled flush is
// rescheduled on every call, so a burst of N calls lands exactly one remote
// write, syncDelay after the last call, carrying the last value.
func (s *Store) SyncElapsedTime(id string, totalSeconds int) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks[idx].TimeSpent = totalSeconds
	calendarOrigin := s.tasks[idx].IsCalendarEvent()
	s.mu.Unlock()

	if calendarOrigin {
		return
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.pendingID = id
	s.pendingSeconds = totalSeconds

	// Each call supersedes any scheduled flush. Stopping a fired timer is
	// a no-op, so the generation check inside the flush is what keeps a
	// concurrently in-flight fire from writing twice.
	s.syncGen++
	gen := s.syncGen
	if s.syncTimer != nil {
		s.syncTimer.Stop()
	}
	s.syncTimer = time.AfterFunc(s.syncDelay, func() { s.flushElapsed(gen) })
}

// flushElapsed writes the most recent pending elapsed value to the remote
// store. A stale generation means the schedule was superseded after this
// fire was already committed; it must not write. Failures are logged only;
// the next flush self-corrects the value.
func (s *Store) flushElapsed(gen uint64) {
	s.syncMu.Lock()
	if gen != s.syncGen {
		s.syncMu.Unlock()
		return
	}
	id := s.pendingID
	seconds := s.pendingSeconds
	s.pendingID = ""
	s.syncTimer = nil
	s.syncMu.Unlock()

	if id == "" {
		return
	}

	err := s.remote.UpdateTask(context.Background(), id, map[string]any{"time_spent": seconds})
	if err != nil {
		s.log.Warn("elapsed-time sync failed",
			zap.String("id", id),
			zap.Int("seconds", seconds),
			zap.Error(err))
	}
}

// FlushElapsed forces any pending debounced write out immediately. Used on
// shutdown so the final timer value is not lost to the delay window.
func (s *Store) FlushElapsed() {
	s.syncMu.Lock()
	if s.syncTimer != nil {
		s.syncTimer.Stop()
	}
	gen := s.syncGen
	s.syncMu.Unlock()
	s.flushElapsed(gen)
}
