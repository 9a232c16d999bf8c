package store

import (
	"context"
	"sync"
)

// notifier fans change events out to in-process subscribers. It backs the
// memory and sqlite stores, which have no cross-process channel. Events are
// dropped rather than queued when a subscriber falls behind.
type notifier struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[chan Event]struct{})}
}

func (n *notifier) subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		n.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (n *notifier) notify(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- Event{Key: key}:
		default:
			// subscriber is behind; it will re-read on its next event
		}
	}
}
