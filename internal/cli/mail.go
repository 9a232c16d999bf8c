package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
)

// inviteKey is the mailbox address of the current identity: the username for
// accounts, the display name for guests.
func (a *App) inviteKey(ctx context.Context) string {
	id := a.ids.Resolve(ctx)
	if id.Authenticated() {
		return id.Username
	}
	return id.DisplayName
}

func (a *App) mail(ctx context.Context) error {
	inbox, err := a.repo.ListInvitesForRecipient(ctx, a.inviteKey(ctx))
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	if len(inbox) == 0 {
		printlnFn("Your mailbox is empty.")
		return nil
	}
	printlnFn("Mailbox (newest first):")
	for i, inv := range inbox {
		label := inv.RoomID
		if room, err := a.repo.GetRoom(ctx, inv.RoomID); err == nil {
			label = room.Name + " [" + room.ID + "]"
		}
		printfFn(" %d. [%s] %s (room %s)\n", i+1, inv.Status, inv.Message, label)
	}
	printlnFn("Use 'accept <n>' or 'decline <n>'.")
	return nil
}

func (a *App) accept(ctx context.Context, args []string) error {
	inv, err := a.pendingInvite(ctx, args, "accept <n>")
	if inv == nil {
		return err
	}
	if err := a.repo.UpdateInviteStatus(ctx, inv.ID, models.InviteAccepted); err != nil {
		printlnFn(err.Error())
		return err
	}
	id := a.ids.Resolve(ctx)
	if id.Authenticated() {
		room, err := a.repo.GetRoom(ctx, inv.RoomID)
		if err != nil {
			printlnFn(err.Error())
			return err
		}
		_, known := rooms.LookupParticipant(room, id.Username, id.DisplayName)
		if err := a.repo.AddParticipant(ctx, inv.RoomID, models.Participant{
			Username:    id.Username,
			DisplayName: id.DisplayName,
			Role:        string(models.RoleMember),
		}); err != nil {
			printlnFn(err.Error())
			return err
		}
		if !known && !rooms.IsOwner(id, room) {
			if err := a.announceJoin(ctx, inv.RoomID, id.DisplayName); err != nil {
				return err
			}
		}
	}
	if err := a.repo.RecordRecentRoom(ctx, inv.RoomID); err != nil {
		return err
	}
	// An accepted invite admits the recipient without the room password.
	return a.enterRoom(ctx, inv.RoomID)
}

func (a *App) decline(ctx context.Context, args []string) error {
	inv, err := a.pendingInvite(ctx, args, "decline <n>")
	if inv == nil {
		return err
	}
	if err := a.repo.UpdateInviteStatus(ctx, inv.ID, models.InviteDeclined); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("Invite declined.")
	return nil
}

// pendingInvite resolves the <n> argument against the mailbox listing and
// checks the invite is still pending. A nil invite means the problem was
// already reported to the user.
func (a *App) pendingInvite(ctx context.Context, args []string, usage string) (*models.Invite, error) {
	if len(args) != 1 {
		printlnFn("Usage: " + usage)
		return nil, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		printlnFn("Usage: " + usage)
		return nil, nil
	}

	inbox, err := a.repo.ListInvitesForRecipient(ctx, a.inviteKey(ctx))
	if err != nil {
		printlnFn(err.Error())
		return nil, err
	}
	if n > len(inbox) {
		printlnFn("No such invite.")
		return nil, nil
	}
	inv := inbox[n-1]
	if inv.Status != models.InvitePending {
		printlnFn("That invite was already answered.")
		return nil, nil
	}
	return &inv, nil
}
