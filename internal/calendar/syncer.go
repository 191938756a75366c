package calendar

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sokawa/dayboard/internal/models"
	"github.com/sokawa/dayboard/internal/store"
)

// Syncer fetches a day's events and merges them into the task store. It is
// triggered on session establishment, on date navigation, and after a
// successful re-authentication.
type Syncer struct {
	source EventSource
	store  *store.Store
	log    *zap.Logger

	mu          sync.Mutex
	cached      []models.CalendarEvent
	needsReauth bool
}

// NewSyncer creates a syncer over the source.
func NewSyncer(source EventSource, s *store.Store, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{source: source, store: s, log: log}
}

// Fetch pulls the day's events and merges them. A transient failure falls
// back to the last cached snapshot silently; an auth-shaped failure suspends
// further fetches until Reauthed is called and is surfaced to the caller.
// A successful fetch yielding zero events merges nothing, so previously
// merged events stay visible.
func (sy *Syncer) Fetch(ctx context.Context, day time.Time) error {
	sy.mu.Lock()
	if sy.needsReauth {
		sy.mu.Unlock()
		return ErrReauthRequired
	}
	sy.mu.Unlock()

	raw, err := sy.source.Events(ctx, day)
	if err != nil {
		if IsReauthError(err) {
			sy.mu.Lock()
			sy.needsReauth = true
			sy.mu.Unlock()
			sy.log.Warn("calendar fetch requires re-authentication", zap.Error(err))
			return ErrReauthRequired
		}

		sy.log.Warn("calendar fetch failed, using cached snapshot", zap.Error(err))
		sy.mu.Lock()
		cached := append([]models.CalendarEvent(nil), sy.cached...)
		sy.mu.Unlock()
		sy.store.MergeExternalEvents(cached)
		return nil
	}

	events := Normalize(raw, day)
	sy.mu.Lock()
	sy.cached = events
	sy.mu.Unlock()

	sy.store.MergeExternalEvents(events)
	return nil
}

// NeedsReauth reports whether fetching is suspended pending reconnection.
func (sy *Syncer) NeedsReauth() bool {
	sy.mu.Lock()
	defer sy.mu.Unlock()
	return sy.needsReauth
}

// Reauthed clears the suspension after the user reconnected.
func (sy *Syncer) Reauthed() {
	sy.mu.Lock()
	sy.needsReauth = false
	sy.mu.Unlock()
}
