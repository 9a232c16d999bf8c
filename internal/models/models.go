// Package models defines the persisted and derived record types shared by the
// identity service, the room repository, and the command interpreter.
package models

import "time"

// Account is a signed-up user. Accounts are created on signup, mutated only
// via display-name updates, and never deleted.
type Account struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	PinHash     string    `json:"pinHash"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IdentityKind distinguishes an authenticated account holder from an
// ephemeral guest. "owner" means "has an account", not room leadership.
type IdentityKind string

const (
	IdentityOwner IdentityKind = "owner"
	IdentityGuest IdentityKind = "guest"
)

// Identity is the acting identity for a single command invocation. It is
// derived, never persisted. Username is empty for guests.
type Identity struct {
	DisplayName string
	Username    string
	Kind        IdentityKind
}

// Authenticated reports whether the identity is backed by an account.
func (i Identity) Authenticated() bool {
	return i.Username != ""
}

// Participant is a room membership row embedded in a Room. Username is empty
// for guests, in which case DisplayName is the matching key.
type Participant struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Room is a named chat room. OwnerUsername is set at creation and never
// changes; ownership is never transferred. An empty Password means the room
// is open.
type Room struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Password         string        `json:"password"`
	OwnerUsername    string        `json:"ownerUsername"`
	OwnerDisplayName string        `json:"ownerDisplayName"`
	Topic            string        `json:"topic"`
	CreatedAt        time.Time     `json:"createdAt"`
	LastActiveAt     time.Time     `json:"lastActiveAt"`
	Participants     []Participant `json:"participants"`
	Banned           []string      `json:"banned"`
}

// MessageType tags a room-log entry as user chat or a system notice.
type MessageType string

const (
	MessageChat   MessageType = "message"
	MessageSystem MessageType = "system"
)

// Message is an append-only room-log entry. User is a display-name snapshot
// taken at send time; entries are never mutated after creation.
type Message struct {
	ID        string      `json:"id"`
	User      string      `json:"user"`
	Text      string      `json:"text"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// InviteStatus is the lifecycle state of an invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

// Invite is a mailbox entry asking the recipient to join a room. Invites are
// mutated only via status transitions and never physically deleted.
type Invite struct {
	ID          string       `json:"id"`
	RoomID      string       `json:"roomId"`
	Recipient   string       `json:"recipient"`
	Sender      string       `json:"sender"`
	Message     string       `json:"message"`
	Status      InviteStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	RespondedAt *time.Time   `json:"respondedAt"`
}

// SessionClaims is the payload of the signed session token persisted in the
// store. It mirrors the original session record {username, displayName}.
type SessionClaims struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}
