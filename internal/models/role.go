package models

// Role is a participant's effective role within a room. The set is closed;
// anything read from the store goes through NormalizeRole before use.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleCoLeader Role = "coLeader"
	RoleMember   Role = "member"
	RoleGuest    Role = "guest"
)

// NormalizeRole canonicalizes a role tag read from a stored participant row.
// Unrecognized or empty tags normalize to RoleMember. RoleGuest is never a
// stored role; it only exists as a resolution result for unauthenticated
// non-participants.
func NormalizeRole(tag string) Role {
	switch Role(tag) {
	case RoleLeader:
		return RoleLeader
	case RoleCoLeader:
		return RoleCoLeader
	default:
		return RoleMember
	}
}

// HasLeadership reports whether the role carries moderation rights.
func HasLeadership(r Role) bool {
	return r == RoleLeader || r == RoleCoLeader
}
