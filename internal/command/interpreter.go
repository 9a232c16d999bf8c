// Package command implements the slash-command interpreter: tokenizing input
// lines, dispatching to handlers, enforcing the leader / co-leader / member /
// guest permission hierarchy, and emitting user-facing feedback into a
// bounded buffer.
//
// Every invocation runs the same pipeline: tokenize, identify the command,
// authorize, execute, emit feedback. Handlers validate argument arity before
// touching any state, report a missing current room before role checks, and
// short-circuit on permission failures before any mutation, so a failed
// command never leaves partial writes behind.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/identity"
	"github.com/dmitrijs2005/termrooms/internal/logging"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
)

// Navigator is the view-side surface the interpreter steers: returning to the
// lobby and opening the guide. The terminal session implements it.
type Navigator interface {
	Home()
	Guide()
}

// Interpreter executes slash commands against the room repository on behalf
// of the resolved identity. It never writes the store directly; all mutations
// go through the repository.
//
// The current-room id is the one piece of state shared with the store-change
// watcher goroutine, which clears it when the room on screen is deleted
// elsewhere. Access goes through SetCurrentRoom/CurrentRoom, guarded by mu.
type Interpreter struct {
	ids      *identity.Service
	repo     *rooms.Repository
	nav      Navigator
	log      logging.Logger
	feedback Feedback

	mu            sync.Mutex
	currentRoomID string

	nowFn func() time.Time
}

// New returns an Interpreter bound to the given services.
func New(ids *identity.Service, repo *rooms.Repository, nav Navigator, log logging.Logger) *Interpreter {
	return &Interpreter{
		ids:   ids,
		repo:  repo,
		nav:   nav,
		log:   log,
		nowFn: time.Now,
	}
}

// SetCurrentRoom records which room the terminal session is showing; an empty
// id means the lobby.
func (it *Interpreter) SetCurrentRoom(id string) {
	it.mu.Lock()
	it.currentRoomID = id
	it.mu.Unlock()
}

// CurrentRoom returns the active room id, or "" in the lobby.
func (it *Interpreter) CurrentRoom() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.currentRoomID
}

// Feedback exposes the interpreter's feedback buffer for rendering.
func (it *Interpreter) Feedback() *Feedback { return &it.feedback }

// Execute runs one input line to completion. Lines without the slash prefix
// are plain chat into the active room. Failures never propagate: every error
// becomes exactly one feedback line.
func (it *Interpreter) Execute(ctx context.Context, input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	if !strings.HasPrefix(input, "/") {
		if err := it.chat(ctx, input); err != nil {
			it.fail(ctx, "chat", err)
		}
		return
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		it.feedback.Push("Unknown command: /. Try /help.", VariantDanger)
		return
	}
	name := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch name {
	case "help":
		it.cmdHelp()
	case "guide":
		it.cmdGuide()
	case "whoami":
		err = it.cmdWhoami(ctx)
	case "setname":
		err = it.cmdSetname(ctx, args)
	case "leave":
		err = it.cmdLeave(ctx)
	case "delete":
		err = it.cmdDelete(ctx, args)
	case "topic":
		err = it.cmdTopic(ctx, args)
	case "recent":
		err = it.cmdRecent(ctx, args)
	case "relay":
		err = it.cmdRelay(ctx, args)
	case "invite":
		err = it.cmdInvite(ctx, args)
	case "kick":
		err = it.cmdKick(ctx, args)
	case "ban":
		err = it.cmdBan(ctx, args)
	case "promote":
		err = it.cmdPromote(ctx, args)
	case "demote":
		err = it.cmdDemote(ctx, args)
	case "clear":
		it.feedback.Clear()
	default:
		it.feedback.Push(fmt.Sprintf("Unknown command: /%s. Try /help.", name), VariantDanger)
	}
	if err != nil {
		it.fail(ctx, name, err)
	}
}

// chat appends a plain message to the active room's log.
func (it *Interpreter) chat(ctx context.Context, text string) error {
	roomID := it.CurrentRoom()
	if roomID == "" {
		return fmt.Errorf("%w: join a room to chat, or try /help", common.ErrValidation)
	}
	id := it.ids.Resolve(ctx)
	msg := models.Message{
		ID:        uuid.NewString(),
		User:      id.DisplayName,
		Text:      text,
		Type:      models.MessageChat,
		Timestamp: it.nowFn(),
	}
	if err := it.repo.AppendMessage(ctx, roomID, msg); err != nil {
		return err
	}
	return it.repo.Touch(ctx, roomID)
}

// fail converts a handler error into a single feedback line. Validation
// problems render as warnings, everything else as danger.
func (it *Interpreter) fail(ctx context.Context, cmd string, err error) {
	variant := VariantDanger
	if errors.Is(err, common.ErrValidation) {
		variant = VariantWarning
	}
	it.feedback.Push(capitalize(userMessage(err)), variant)
	it.log.Warn(ctx, "command failed", "command", cmd, "error", err)
}

// userMessage strips the sentinel prefix wrapping so the user sees the
// specific half of "sentinel: detail" messages, or the sentinel text itself
// when no detail was attached.
func userMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		common.ErrValidation, common.ErrAuthorization, common.ErrNotFound,
		common.ErrConflict, common.ErrCapacityExceeded, common.ErrUnauthenticated,
		common.ErrCredential,
	} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// currentRoom loads the active room, reporting the missing-room cases before
// any role logic runs.
func (it *Interpreter) currentRoom(ctx context.Context) (*models.Room, error) {
	roomID := it.CurrentRoom()
	if roomID == "" {
		return nil, fmt.Errorf("%w: you are not in a room", common.ErrValidation)
	}
	room, err := it.repo.GetRoom(ctx, roomID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: this room no longer exists", common.ErrNotFound)
	}
	return room, err
}

// systemNotice appends a system message to the room log and refreshes the
// room's activity stamp.
func (it *Interpreter) systemNotice(ctx context.Context, roomID, text string) error {
	msg := models.Message{
		ID:        uuid.NewString(),
		User:      "system",
		Text:      text,
		Type:      models.MessageSystem,
		Timestamp: it.nowFn(),
	}
	if err := it.repo.AppendMessage(ctx, roomID, msg); err != nil {
		return err
	}
	return it.repo.Touch(ctx, roomID)
}

// targetsOwner reports whether the display name addresses the room owner,
// either directly or through a participant row carrying the owner username.
func targetsOwner(room *models.Room, displayName string) bool {
	if strings.EqualFold(displayName, room.OwnerDisplayName) {
		return true
	}
	p, ok := rooms.LookupParticipant(room, "", displayName)
	return ok && p.Username != "" && p.Username == room.OwnerUsername
}
