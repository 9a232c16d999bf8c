package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

// startWatcher subscribes to store change events for the duration of a room
// visit, printing messages written by other processes and redirecting home
// when the room disappears. Events carry only key names; the watcher re-reads
// the affected records itself.
func (a *App) startWatcher(roomID string) {
	a.stopWatcher()

	ctx, cancel := context.WithCancel(context.Background())

	events, err := a.store.Subscribe(ctx)
	if err != nil {
		cancel()
		a.log.Warn(ctx, "change subscription unavailable", "error", err)
		return
	}

	done := make(chan struct{})
	a.mu.Lock()
	a.cancelWatch = cancel
	a.watchDone = done
	a.mu.Unlock()

	go func() {
		defer close(done)
		for ev := range events {
			switch ev.Key {
			case store.MessagesKey(roomID):
				a.printNewMessages(ctx, roomID)
			case store.KeyRooms:
				if _, err := a.repo.GetRoom(ctx, roomID); errors.Is(err, common.ErrNotFound) {
					a.interp.SetCurrentRoom("")
					printlnFn("This room was deleted.")
					printlnFn(lobbyBanner)
					return
				}
			}
		}
	}()
}

// stopWatcher cancels the active watcher and waits for its goroutine to
// finish. Every store backend closes the event channel once the subscription
// context is cancelled, so the wait is bounded.
func (a *App) stopWatcher() {
	a.mu.Lock()
	cancel, done := a.cancelWatch, a.watchDone
	a.cancelWatch, a.watchDone = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// printNewMessages prints whatever the log holds beyond the already rendered
// window. Locally sent messages come back through here too; the echo doubles
// as confirmation that the write landed.
func (a *App) printNewMessages(ctx context.Context, roomID string) {
	total, err := a.repo.CountMessages(ctx, roomID)
	if err != nil {
		return
	}

	a.mu.Lock()
	fresh := total - a.loaded
	if fresh > 0 {
		a.loaded = total
	}
	a.mu.Unlock()

	if fresh <= 0 {
		return
	}
	window, err := a.repo.ListMessages(ctx, roomID, fresh)
	if err != nil {
		return
	}
	for _, m := range window {
		a.printMessage(m)
	}
}
