package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

// RecentLimit caps the recent-rooms list.
const RecentLimit = 10

// RecordRecentRoom moves the id to the front of the recent-rooms list,
// de-duplicating and trimming to RecentLimit.
func (r *Repository) RecordRecentRoom(ctx context.Context, id string) error {
	recents, err := r.RecentRooms(ctx)
	if err != nil {
		return err
	}
	next := make([]string, 0, len(recents)+1)
	next = append(next, id)
	for _, existing := range recents {
		if existing == id {
			continue
		}
		next = append(next, existing)
	}
	if len(next) > RecentLimit {
		next = next[:RecentLimit]
	}
	return r.saveRecents(ctx, next)
}

// RecentRooms returns the recent-room ids, most recent first.
func (r *Repository) RecentRooms(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, store.KeyRecents)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recent rooms: %w", err)
	}
	var recents []string
	if err := json.Unmarshal(raw, &recents); err != nil {
		return nil, fmt.Errorf("failed to decode recent rooms: %w", err)
	}
	return recents, nil
}

// ClearRecentRooms empties the recent-rooms list.
func (r *Repository) ClearRecentRooms(ctx context.Context) error {
	return r.saveRecents(ctx, []string{})
}

func (r *Repository) saveRecents(ctx context.Context, recents []string) error {
	raw, err := json.Marshal(recents)
	if err != nil {
		return fmt.Errorf("failed to encode recent rooms: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyRecents, raw); err != nil {
		return fmt.Errorf("failed to save recent rooms: %w", err)
	}
	return nil
}
