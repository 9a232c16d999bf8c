package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
)

func (a *App) create(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Room name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetSimpleText(a.reader, "Room password (leave empty for an open room)", os.Stdout)
	if err != nil {
		return err
	}

	id := a.ids.Resolve(ctx)
	room, err := a.repo.CreateRoom(ctx, rooms.CreateRoomParams{
		Name:             name,
		Password:         password,
		OwnerUsername:    id.Username,
		OwnerDisplayName: id.DisplayName,
	})
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Created room " + room.ID + ".")
	return a.enterRoom(ctx, room.ID)
}

func (a *App) join(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: join <room-id> [password]")
		return nil
	}
	roomID := strings.ToLower(args[0])

	room, err := a.repo.GetRoom(ctx, roomID)
	if errors.Is(err, common.ErrNotFound) {
		printlnFn("No room with id " + roomID + ".")
		return nil
	}
	if err != nil {
		return err
	}

	id := a.ids.Resolve(ctx)
	if a.repo.IsBanned(room, id.DisplayName) {
		printlnFn("You are banned from this room.")
		return nil
	}

	if room.Password != "" && !rooms.IsOwner(id, room) {
		supplied := ""
		if len(args) > 1 {
			supplied = args[1]
		} else {
			supplied, err = GetSimpleText(a.reader, "Room password", os.Stdout)
			if err != nil {
				return err
			}
		}
		if !a.repo.PasswordMatches(room, supplied) {
			printlnFn("Wrong password.")
			return nil
		}
	}

	// Guests watch without a participant entry; accounts join as members.
	// First-time joins are announced in the room log.
	if id.Authenticated() && !rooms.IsOwner(id, room) {
		_, known := rooms.LookupParticipant(room, id.Username, id.DisplayName)
		if err := a.repo.AddParticipant(ctx, roomID, models.Participant{
			Username:    id.Username,
			DisplayName: id.DisplayName,
			Role:        string(models.RoleMember),
		}); err != nil {
			return err
		}
		if !known {
			if err := a.announceJoin(ctx, roomID, id.DisplayName); err != nil {
				return err
			}
		}
	}
	if err := a.repo.RecordRecentRoom(ctx, roomID); err != nil {
		return err
	}
	return a.enterRoom(ctx, roomID)
}

// enterRoom renders the room header and the trailing message window, then
// switches the interpreter and the change watcher onto the room.
func (a *App) enterRoom(ctx context.Context, roomID string) error {
	room, err := a.repo.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	printfFn("=== %s [%s] ===\n", room.Name, room.ID)
	if room.Topic != "" {
		printlnFn("Topic: " + room.Topic)
	}

	window, err := a.repo.ListMessages(ctx, roomID, rooms.InitialWindow)
	if err != nil {
		return err
	}
	total, err := a.repo.CountMessages(ctx, roomID)
	if err != nil {
		return err
	}
	if total > len(window) {
		printlnFn("(type 'loadmore' to see older messages)")
	}
	for _, m := range window {
		a.printMessage(m)
	}

	a.mu.Lock()
	a.loaded = len(window)
	a.mu.Unlock()

	a.interp.SetCurrentRoom(roomID)
	a.startWatcher(roomID)
	return nil
}

// loadMore extends the visible window backwards by one batch and re-renders
// it in full.
func (a *App) loadMore(ctx context.Context) error {
	roomID := a.interp.CurrentRoom()
	if roomID == "" {
		printlnFn("You are not in a room.")
		return nil
	}

	a.mu.Lock()
	current := a.loaded
	a.mu.Unlock()

	window, loaded, more, err := a.repo.LoadOlderMessages(ctx, roomID, current)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.mu.Lock()
	a.loaded = loaded
	a.mu.Unlock()

	if !more {
		printlnFn("(beginning of history)")
	}
	for _, m := range window {
		a.printMessage(m)
	}
	return nil
}

func (a *App) listRooms(ctx context.Context) error {
	id := a.ids.Resolve(ctx)
	if !id.Authenticated() {
		printlnFn("Sign in to list your rooms. Guests can still 'join <room-id>'.")
		return nil
	}
	owned, err := a.repo.ListRoomsByOwner(ctx, id.Username)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	if len(owned) == 0 {
		printlnFn("You own no rooms yet. Try 'create'.")
		return nil
	}
	printlnFn("Your rooms:")
	for _, room := range owned {
		printfFn(" %s  %s (%d participants)\n", room.ID, room.Name, len(room.Participants))
	}
	return nil
}

// announceJoin appends a system message to the room log and refreshes its
// activity stamp.
func (a *App) announceJoin(ctx context.Context, roomID, displayName string) error {
	msg := models.Message{
		ID:        uuid.NewString(),
		User:      "system",
		Text:      displayName + " joined the room.",
		Type:      models.MessageSystem,
		Timestamp: time.Now(),
	}
	if err := a.repo.AppendMessage(ctx, roomID, msg); err != nil {
		return err
	}
	return a.repo.Touch(ctx, roomID)
}

func (a *App) printMessage(m models.Message) {
	stamp := m.Timestamp.Format("15:04")
	if m.Type == models.MessageSystem {
		printfFn("%s -- %s\n", stamp, m.Text)
		return
	}
	printfFn("%s <%s> %s\n", stamp, m.User, m.Text)
}
