package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

const (
	// InitialWindow is how many trailing messages a freshly opened room shows.
	InitialWindow = 50

	// LoadBatch is how many older messages each load-more step adds.
	LoadBatch = 25
)

// AppendMessage appends to the room's log. Logs are append-only; entries are
// never mutated and disappear only when the room is deleted.
func (r *Repository) AppendMessage(ctx context.Context, roomID string, msg models.Message) error {
	log, err := r.loadMessages(ctx, roomID)
	if err != nil {
		return err
	}
	log = append(log, msg)
	return r.saveMessages(ctx, roomID, log)
}

// ListMessages returns the most recent windowSize messages, oldest first.
// A windowSize at or beyond the log length returns the whole log.
func (r *Repository) ListMessages(ctx context.Context, roomID string, windowSize int) ([]models.Message, error) {
	log, err := r.loadMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if windowSize < len(log) {
		log = log[len(log)-windowSize:]
	}
	return log, nil
}

// CountMessages returns the full log length.
func (r *Repository) CountMessages(ctx context.Context, roomID string) (int, error) {
	log, err := r.loadMessages(ctx, roomID)
	if err != nil {
		return 0, err
	}
	return len(log), nil
}

// LoadOlderMessages extends a loaded window of currentlyLoaded messages by
// LoadBatch, capped at the full log length. It returns the extended window
// (oldest first), the new loaded count, and whether more remain. Pagination
// is pure index arithmetic over the persisted log.
func (r *Repository) LoadOlderMessages(ctx context.Context, roomID string, currentlyLoaded int) ([]models.Message, int, bool, error) {
	log, err := r.loadMessages(ctx, roomID)
	if err != nil {
		return nil, 0, false, err
	}
	loaded := currentlyLoaded + LoadBatch
	if loaded > len(log) {
		loaded = len(log)
	}
	window := log[len(log)-loaded:]
	return window, loaded, loaded < len(log), nil
}

func (r *Repository) loadMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	raw, err := r.store.Get(ctx, store.MessagesKey(roomID))
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for room %s: %w", roomID, err)
	}
	var log []models.Message
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("failed to decode messages for room %s: %w", roomID, err)
	}
	return log, nil
}

func (r *Repository) saveMessages(ctx context.Context, roomID string, log []models.Message) error {
	raw, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to encode messages for room %s: %w", roomID, err)
	}
	if err := r.store.Set(ctx, store.MessagesKey(roomID), raw); err != nil {
		return fmt.Errorf("failed to save messages for room %s: %w", roomID, err)
	}
	return nil
}
