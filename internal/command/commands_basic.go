package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
)

// cmdHelp prints the command catalog, organized by scope section.
func (it *Interpreter) cmdHelp() {
	it.feedback.Push("Available commands:", VariantInfo)
	for _, section := range Catalog {
		it.feedback.Push(fmt.Sprintf("%s (%s)", section.Title, section.Scope), VariantInfo)
		for _, c := range section.Commands {
			it.feedback.Push(fmt.Sprintf(" %-36s %s", c.Syntax, c.Description), VariantInfo)
		}
	}
}

// cmdGuide hands off to the guide page.
func (it *Interpreter) cmdGuide() {
	it.nav.Guide()
	it.feedback.Push("Opening guide...", VariantInfo)
}

// cmdWhoami prints identity, room, and role.
func (it *Interpreter) cmdWhoami(ctx context.Context) error {
	id := it.ids.Resolve(ctx)
	if it.CurrentRoom() == "" {
		it.feedback.Push(fmt.Sprintf("You are %s (%s).", id.DisplayName, id.Kind), VariantInfo)
		return nil
	}
	room, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}
	role := rooms.ResolveRole(id, room)
	it.feedback.Push(
		fmt.Sprintf("You are %s (%s). Room: %s [%s], role: %s.", id.DisplayName, id.Kind, room.Name, room.ID, role),
		VariantInfo,
	)
	return nil
}

// cmdSetname updates the caller's display name: persisted for accounts,
// in-memory only for guests.
func (it *Interpreter) cmdSetname(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("/setname Display Name")
	}
	name := strings.Join(args, " ")
	if err := it.ids.SetDisplayName(ctx, name); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf("Display name updated to %s", name), VariantSuccess)
	return nil
}

// cmdLeave exits the current room context and returns to the lobby.
func (it *Interpreter) cmdLeave(ctx context.Context) error {
	if _, err := it.currentRoom(ctx); err != nil {
		return err
	}
	it.SetCurrentRoom("")
	it.nav.Home()
	it.feedback.Push("Left the room.", VariantInfo)
	return nil
}

// cmdRecent lists or clears the recent-rooms list.
func (it *Interpreter) cmdRecent(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if strings.ToLower(args[0]) != "clear" {
			return usage("/recent [clear]")
		}
		if err := it.repo.ClearRecentRooms(ctx); err != nil {
			return err
		}
		it.feedback.Push("Recent rooms cleared.", VariantSuccess)
		return nil
	}

	recents, err := it.repo.RecentRooms(ctx)
	if err != nil {
		return err
	}
	if len(recents) == 0 {
		it.feedback.Push("No recent rooms.", VariantInfo)
		return nil
	}
	it.feedback.Push("Recent rooms:", VariantInfo)
	for _, id := range recents {
		label := id
		if room, err := it.repo.GetRoom(ctx, id); err == nil {
			label = fmt.Sprintf("%s  %s", id, room.Name)
		}
		it.feedback.Push(" "+label, VariantInfo)
	}
	return nil
}

func usage(syntax string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrValidation, syntax)
}
