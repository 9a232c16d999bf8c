package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
)

// cmdInvite sends an invite for the current room to a username's mailbox.
// Available to the leader and co-leaders.
func (it *Interpreter) cmdInvite(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("/invite <username> [message]")
	}
	room, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}
	id := it.ids.Resolve(ctx)
	if !models.HasLeadership(rooms.ResolveRole(id, room)) {
		return fmt.Errorf("%w: only the leader or a co-leader can invite", common.ErrAuthorization)
	}

	recipient := args[0]
	message := strings.Join(args[1:], " ")
	if _, err := it.repo.SendInvite(ctx, rooms.InviteParams{
		RoomID:    room.ID,
		Recipient: recipient,
		Sender:    id.DisplayName,
		Message:   message,
	}); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf("Invite sent to %s.", recipient), VariantSuccess)
	return nil
}

// cmdKick removes a participant from the current room. The leader can kick
// anyone but the owner; a co-leader can only kick members.
func (it *Interpreter) cmdKick(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("/kick <display-name>")
	}
	room, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}
	id := it.ids.Resolve(ctx)
	callerRole := rooms.ResolveRole(id, room)
	if !models.HasLeadership(callerRole) {
		return fmt.Errorf("%w: only the leader or a co-leader can kick", common.ErrAuthorization)
	}

	target := strings.Join(args, " ")
	if targetsOwner(room, target) {
		return fmt.Errorf("%w: the room owner cannot be kicked", common.ErrAuthorization)
	}
	p, ok := rooms.LookupParticipant(room, "", target)
	if !ok {
		return fmt.Errorf("%w: no participant named %s", common.ErrNotFound, target)
	}
	if callerRole == models.RoleCoLeader && models.HasLeadership(models.NormalizeRole(p.Role)) {
		return fmt.Errorf("%w: co-leaders can only kick members", common.ErrAuthorization)
	}

	if err := it.repo.RemoveParticipant(ctx, room.ID, p.Username, p.DisplayName); err != nil {
		return err
	}
	if err := it.systemNotice(ctx, room.ID, fmt.Sprintf("%s was kicked by %s.", p.DisplayName, id.DisplayName)); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf("Kicked %s.", p.DisplayName), VariantSuccess)
	return nil
}

// cmdBan adds a participant to the room's ban list and removes them. Leader
// only; the owner can never be banned.
func (it *Interpreter) cmdBan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("/ban <display-name>")
	}
	room, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}
	id := it.ids.Resolve(ctx)
	if rooms.ResolveRole(id, room) != models.RoleLeader {
		return fmt.Errorf("%w: only the leader can ban", common.ErrAuthorization)
	}

	target := strings.Join(args, " ")
	if targetsOwner(room, target) {
		return fmt.Errorf("%w: the room owner cannot be banned", common.ErrAuthorization)
	}

	if err := it.repo.BanParticipant(ctx, room.ID, target); err != nil {
		return err
	}
	if err := it.systemNotice(ctx, room.ID, fmt.Sprintf("%s was banned by %s.", target, id.DisplayName)); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf("Banned %s.", target), VariantSuccess)
	return nil
}

// cmdPromote raises a member to co-leader. Leader only.
func (it *Interpreter) cmdPromote(ctx context.Context, args []string) error {
	return it.changeRole(ctx, args, "/promote <display-name>", models.RoleCoLeader,
		"%s is already a co-leader.", "%s was promoted to co-leader by %s.", "Promoted %s to co-leader.")
}

// cmdDemote lowers a co-leader back to member. Leader only.
func (it *Interpreter) cmdDemote(ctx context.Context, args []string) error {
	return it.changeRole(ctx, args, "/demote <display-name>", models.RoleMember,
		"%s is already a member.", "%s was demoted to member by %s.", "Demoted %s to member.")
}

// changeRole is the shared promote/demote path: leader-only, never targets
// the owner, no-op when the participant already holds the role.
func (it *Interpreter) changeRole(ctx context.Context, args []string, syntax string, role models.Role, alreadyMsg, noticeMsg, successMsg string) error {
	if len(args) == 0 {
		return usage(syntax)
	}
	room, err := it.currentRoom(ctx)
	if err != nil {
		return err
	}
	id := it.ids.Resolve(ctx)
	if rooms.ResolveRole(id, room) != models.RoleLeader {
		return fmt.Errorf("%w: only the leader can change roles", common.ErrAuthorization)
	}

	target := strings.Join(args, " ")
	if targetsOwner(room, target) {
		return fmt.Errorf("%w: the room owner's role cannot be changed", common.ErrAuthorization)
	}

	changed, err := it.repo.SetParticipantRole(ctx, room.ID, target, role)
	if err != nil {
		return err
	}
	if !changed {
		it.feedback.Push(fmt.Sprintf(alreadyMsg, target), VariantInfo)
		return nil
	}
	if err := it.systemNotice(ctx, room.ID, fmt.Sprintf(noticeMsg, target, id.DisplayName)); err != nil {
		return err
	}
	it.feedback.Push(fmt.Sprintf(successMsg, target), VariantSuccess)
	return nil
}
