package remote

import (
	"sync"
)

// subscriberBuffer bounds how many undelivered events a subscriber may hold.
// A subscriber that falls further behind misses events rather than blocking
// writers.
const subscriberBuffer = 64

type subscriber struct {
	principalID string
	ch          chan ChangeEvent
}

// feed fans change events out to per-principal subscribers in commit order.
type feed struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

func newFeed() *feed {
	return &feed{subs: make(map[int]*subscriber)}
}

func (f *feed) subscribe(principalID string) (<-chan ChangeEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	sub := &subscriber{principalID: principalID, ch: make(chan ChangeEvent, subscriberBuffer)}
	f.subs[id] = sub

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if s, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

func (f *feed) publish(principalID string, ev ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.principalID != principalID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Subscriber buffer full; the event is dropped and the
			// subscriber self-heals on its next full reload.
		}
	}
}
