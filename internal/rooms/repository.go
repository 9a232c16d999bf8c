// Package rooms implements the room repository and the role resolver. The
// repository is the only writer of room, message, invite, and recent-room
// records; the command interpreter and the terminal session go through it and
// never touch the store directly.
//
// Every operation is one full read-mutate-write cycle against the injected
// store. Writers from different terminal processes are not coordinated: the
// later write wins. That matches the original storage model and is a
// documented property, not an accident; see DESIGN.md.
package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

const (
	// MaxRooms is the global room ceiling; creation fails beyond it.
	MaxRooms = 25

	// idAttempts bounds the collision-retry loop for generated room ids.
	idAttempts = 50
)

// CreateRoomParams carries the caller-supplied fields for CreateRoom.
type CreateRoomParams struct {
	Name             string
	Password         string
	OwnerUsername    string
	OwnerDisplayName string
}

// Repository provides CRUD over room records, message logs, invites, and the
// recent-rooms list, and owns their uniqueness and limit invariants.
type Repository struct {
	store store.Store
	nowFn func() time.Time
	idFn  func() string
}

// NewRepository returns a Repository bound to the given store.
func NewRepository(s store.Store) *Repository {
	return &Repository{
		store: s,
		nowFn: time.Now,
		idFn:  common.NewRoomID,
	}
}

// CreateRoom creates a room owned by params.OwnerUsername, seeds the owner as
// its first participant, and records the new id at the front of the
// recent-rooms list. It fails with ErrUnauthenticated for an empty owner
// username and with ErrCapacityExceeded at the room ceiling. Generated id
// collisions are retried transparently.
func (r *Repository) CreateRoom(ctx context.Context, params CreateRoomParams) (*models.Room, error) {
	if params.OwnerUsername == "" {
		return nil, fmt.Errorf("%w: only signed-in users can create rooms", common.ErrUnauthenticated)
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: room name is required", common.ErrValidation)
	}

	all, err := r.loadRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) >= MaxRooms {
		return nil, fmt.Errorf("%w: limit of %d rooms reached", common.ErrCapacityExceeded, MaxRooms)
	}

	id, err := r.uniqueRoomID(all)
	if err != nil {
		return nil, err
	}

	now := r.nowFn()
	room := models.Room{
		ID:               id,
		Name:             strings.TrimSpace(params.Name),
		Password:         params.Password,
		OwnerUsername:    params.OwnerUsername,
		OwnerDisplayName: params.OwnerDisplayName,
		CreatedAt:        now,
		LastActiveAt:     now,
		Participants: []models.Participant{{
			Username:    params.OwnerUsername,
			DisplayName: params.OwnerDisplayName,
			Role:        string(models.RoleLeader),
		}},
		Banned: []string{},
	}

	all = append(all, room)
	if err := r.saveRooms(ctx, all); err != nil {
		return nil, err
	}
	if err := r.RecordRecentRoom(ctx, room.ID); err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoom returns the room with the given id, or ErrNotFound.
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	all, err := r.loadRooms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// ListRoomsByOwner returns the rooms owned by username, in creation order.
func (r *Repository) ListRoomsByOwner(ctx context.Context, username string) ([]models.Room, error) {
	all, err := r.loadRooms(ctx)
	if err != nil {
		return nil, err
	}
	var owned []models.Room
	for _, room := range all {
		if room.OwnerUsername == username {
			owned = append(owned, room)
		}
	}
	return owned, nil
}

// DeleteRoom removes the room and purges its message log. Deleting an absent
// room is a no-op.
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	all, err := r.loadRooms(ctx)
	if err != nil {
		return err
	}
	kept := all[:0]
	found := false
	for _, room := range all {
		if room.ID == id {
			found = true
			continue
		}
		kept = append(kept, room)
	}
	if !found {
		return nil
	}
	if err := r.saveRooms(ctx, kept); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, store.MessagesKey(id)); err != nil {
		return fmt.Errorf("failed to purge messages for room %s: %w", id, err)
	}
	return nil
}

// Touch updates the room's lastActiveAt. Called after any message or
// moderation action.
func (r *Repository) Touch(ctx context.Context, id string) error {
	return r.mutateRoom(ctx, id, func(room *models.Room) error {
		room.LastActiveAt = r.nowFn()
		return nil
	})
}

// SetTopic sets the room topic; an empty text clears it.
func (r *Repository) SetTopic(ctx context.Context, id, text string) error {
	return r.mutateRoom(ctx, id, func(room *models.Room) error {
		room.Topic = text
		return nil
	})
}

// AddParticipant appends the participant unless an entry already matches by
// username (when both have one) or by case-insensitive display name.
func (r *Repository) AddParticipant(ctx context.Context, id string, p models.Participant) error {
	return r.mutateRoom(ctx, id, func(room *models.Room) error {
		if findParticipant(room, p.Username, p.DisplayName) >= 0 {
			return nil
		}
		p.Role = string(models.NormalizeRole(p.Role))
		room.Participants = append(room.Participants, p)
		return nil
	})
}

// RemoveParticipant removes at most the entries matching by username (if both
// sides have one) or else by case-insensitive display name.
func (r *Repository) RemoveParticipant(ctx context.Context, id, username, displayName string) error {
	return r.mutateRoom(ctx, id, func(room *models.Room) error {
		kept := room.Participants[:0]
		for _, p := range room.Participants {
			if participantMatches(p, username, displayName) {
				continue
			}
			kept = append(kept, p)
		}
		room.Participants = kept
		return nil
	})
}

// SetParticipantRole changes the stored role of the participant matched by
// display name. It returns false without error when the participant already
// holds the role, and ErrNotFound when no participant matches.
func (r *Repository) SetParticipantRole(ctx context.Context, id, displayName string, role models.Role) (bool, error) {
	changed := false
	err := r.mutateRoom(ctx, id, func(room *models.Room) error {
		idx := findParticipant(room, "", displayName)
		if idx < 0 {
			return fmt.Errorf("%w: no participant named %s", common.ErrNotFound, displayName)
		}
		if models.NormalizeRole(room.Participants[idx].Role) == role {
			return nil
		}
		room.Participants[idx].Role = string(role)
		changed = true
		return nil
	})
	return changed, err
}

// BanParticipant adds the display name to the room's ban list and removes any
// matching participant entry.
func (r *Repository) BanParticipant(ctx context.Context, id, displayName string) error {
	return r.mutateRoom(ctx, id, func(room *models.Room) error {
		for _, b := range room.Banned {
			if strings.EqualFold(b, displayName) {
				return nil
			}
		}
		room.Banned = append(room.Banned, displayName)
		kept := room.Participants[:0]
		for _, p := range room.Participants {
			if strings.EqualFold(p.DisplayName, displayName) {
				continue
			}
			kept = append(kept, p)
		}
		room.Participants = kept
		return nil
	})
}

// IsBanned reports whether the display name is on the room's ban list.
func (r *Repository) IsBanned(room *models.Room, displayName string) bool {
	for _, b := range room.Banned {
		if strings.EqualFold(b, displayName) {
			return true
		}
	}
	return false
}

// PasswordMatches checks a supplied password against the room's. An empty
// stored password means the room is open and always matches.
func (r *Repository) PasswordMatches(room *models.Room, supplied string) bool {
	return room.Password == "" || room.Password == supplied
}

// --- helpers ---

func (r *Repository) uniqueRoomID(existing []models.Room) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, room := range existing {
		taken[room.ID] = struct{}{}
	}
	for i := 0; i < idAttempts; i++ {
		id := r.idFn()
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique room id", common.ErrConflict)
}

// mutateRoom is the single read-mutate-write boundary for room records.
func (r *Repository) mutateRoom(ctx context.Context, id string, fn func(*models.Room) error) error {
	all, err := r.loadRooms(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if err := fn(&all[i]); err != nil {
			return err
		}
		return r.saveRooms(ctx, all)
	}
	return fmt.Errorf("%w: room %s", common.ErrNotFound, id)
}

func (r *Repository) loadRooms(ctx context.Context) ([]models.Room, error) {
	raw, err := r.store.Get(ctx, store.KeyRooms)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	var all []models.Room
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return all, nil
}

func (r *Repository) saveRooms(ctx context.Context, all []models.Room) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode rooms: %w", err)
	}
	if err := r.store.Set(ctx, store.KeyRooms, raw); err != nil {
		return fmt.Errorf("failed to save rooms: %w", err)
	}
	return nil
}

// findParticipant returns the index of the entry matching by username (when
// both have one) or else by case-insensitive display name, or -1.
func findParticipant(room *models.Room, username, displayName string) int {
	for i, p := range room.Participants {
		if participantMatches(p, username, displayName) {
			return i
		}
	}
	return -1
}

func participantMatches(p models.Participant, username, displayName string) bool {
	if username != "" && p.Username != "" {
		return p.Username == username
	}
	return strings.EqualFold(p.DisplayName, displayName)
}
