package rooms

import (
	"github.com/dmitrijs2005/termrooms/internal/models"
)

// ResolveRole computes the identity's effective role within the room.
//
// Ownership is checked first and wins unconditionally: the owner is leader
// even when absent from the participant list, and no synthetic leader row is
// ever stored to make that true. Otherwise the participant list is searched
// by username (when the identity has one) or by case-insensitive display
// name, and the stored role tag is canonicalized. Authenticated callers not
// on the list resolve to member (a deliberate, consistent policy, see
// DESIGN.md); unauthenticated ones resolve to guest.
func ResolveRole(identity models.Identity, room *models.Room) models.Role {
	if room == nil {
		if identity.Authenticated() {
			return models.RoleMember
		}
		return models.RoleGuest
	}
	if identity.Authenticated() && identity.Username == room.OwnerUsername {
		return models.RoleLeader
	}
	if idx := findParticipant(room, identity.Username, identity.DisplayName); idx >= 0 {
		return models.NormalizeRole(room.Participants[idx].Role)
	}
	if identity.Authenticated() {
		return models.RoleMember
	}
	return models.RoleGuest
}

// IsOwner reports whether the identity owns the room.
func IsOwner(identity models.Identity, room *models.Room) bool {
	return room != nil && identity.Authenticated() && identity.Username == room.OwnerUsername
}

// LookupParticipant finds a participant by username (when both sides have
// one) or else by case-insensitive display name.
func LookupParticipant(room *models.Room, username, displayName string) (models.Participant, bool) {
	idx := findParticipant(room, username, displayName)
	if idx < 0 {
		return models.Participant{}, false
	}
	return room.Participants[idx], true
}
