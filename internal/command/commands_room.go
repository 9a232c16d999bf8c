package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
)

// cmdDelete deletes a room the caller owns, by id. Works from anywhere; if
// the deleted room is the one on screen, the caller is sent home.
func (it *Interpreter) cmdDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("/delete <room-id>")
	}
	roomID := strings.ToLower(args[0])

	room, err := it.repo.GetRoom(ctx, roomID)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: no room with id %s", common.ErrNotFound, roomID)
	}
	if err != nil {
		return err
	}

	id := it.ids.Resolve(ctx)
	if !rooms.IsOwner(id, room) {
		return fmt.Errorf("%w: only the room owner can delete a room", common.ErrAuthorization)
	}

	if err := it.repo.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	if it.CurrentRoom() == roomID {
		it.SetCurrentRoom("")
		it.nav.Home()
	}
	it.feedback.Push(fmt.Sprintf("Room %s deleted.", roomID), VariantSuccess)
	return nil
}

// cmdTopic views the current room topic with no arguments (any role), or
// sets/clears it (leader only).
func (it *Interpreter) cmdTopic(ctx context.Context, args []string) error {
	room, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}

	// The view form always succeeds regardless of role.
	if len(args) == 0 {
		if room.Topic == "" {
			it.feedback.Push("No topic set.", VariantInfo)
		} else {
			it.feedback.Push(fmt.Sprintf("Topic: %s", room.Topic), VariantInfo)
		}
		return nil
	}

	id := it.ids.Resolve(ctx)
	if rooms.ResolveRole(id, room) != models.RoleLeader {
		return fmt.Errorf("%w: only the leader can change the topic", common.ErrAuthorization)
	}

	text := strings.Join(args, " ")
	if strings.EqualFold(text, "clear") {
		if err := it.repo.SetTopic(ctx, room.ID, ""); err != nil {
			return err
		}
		if err := it.repo.Touch(ctx, room.ID); err != nil {
			return err
		}
		it.feedback.Push("Topic cleared.", VariantSuccess)
		return nil
	}
	if err := it.repo.SetTopic(ctx, room.ID, text); err != nil {
		return err
	}
	if err := it.repo.Touch(ctx, room.ID); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf("Topic set to %q.", text), VariantSuccess)
	return nil
}

// cmdRelay appends a relay-tagged message into a different room. The caller
// must hold some role above guest in the room they are currently in; a
// password-protected target additionally requires its exact password unless
// the caller owns it.
func (it *Interpreter) cmdRelay(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("/relay <room-id> [password] <text>")
	}

	source, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}
	id := it.ids.Resolve(ctx)
	if rooms.ResolveRole(id, source) == models.RoleGuest {
		return fmt.Errorf("%w: you must be a participant of this room to relay", common.ErrAuthorization)
	}

	targetID := strings.ToLower(args[0])
	target, err := it.repo.GetRoom(ctx, targetID)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: no room with id %s", common.ErrNotFound, targetID)
	}
	if err != nil {
		return err
	}

	rest := args[1:]
	if target.Password != "" && !rooms.IsOwner(id, target) {
		// The password token is mandatory and consumes the first argument.
		if len(rest) < 2 {
			return usage("/relay <room-id> <password> <text>")
		}
		if !it.repo.PasswordMatches(target, rest[0]) {
			return fmt.Errorf("%w: wrong password for room %s", common.ErrAuthorization, targetID)
		}
		rest = rest[1:]
	}

	text := strings.Join(rest, " ")
	msg := models.Message{
		ID:        uuid.NewString(),
		User:      id.DisplayName + " (relay)",
		Text:      text,
		Type:      models.MessageChat,
		Timestamp: it.nowFn(),
	}
	if err := it.repo.AppendMessage(ctx, targetID, msg); err != nil {
		return err
	}
	if err := it.repo.Touch(ctx, targetID); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf("Relayed to %s.", targetID), VariantSuccess)
	return nil
}
