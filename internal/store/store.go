// Package store defines the persistent key-value contract the rest of
// TermRooms is written against, plus three backends: an in-memory store for
// tests and throwaway sessions, a sqlite store for a single durable machine,
// and a redis store whose pub/sub channel gives real change notifications
// across terminal processes.
//
// The contract is deliberately narrow: synchronous get/set/delete of opaque
// JSON blobs under string keys, and a notification-only subscription channel.
// Concurrent writers are not coordinated: every caller performs a full read,
// a local mutation, and a full overwrite, and the later write wins. Subscribers
// receive only the changed key, never the value; a missed notification means a
// stale view until the next read.
package store

import "context"

// Well-known keys. These mirror the original TermRooms storage layout so that
// a dump of one backend stays readable next to the other.
const (
	KeyAccounts       = "termrooms_accounts"
	KeySession        = "termrooms_session"
	KeyRooms          = "termrooms_rooms"
	KeyRecents        = "termrooms_recent"
	KeyInvites        = "termrooms_invites"
	MessagesKeyPrefix = "termrooms_messages_"
)

// MessagesKey returns the per-room message-log key.
func MessagesKey(roomID string) string {
	return MessagesKeyPrefix + roomID
}

// Event signals that the value under Key was written or deleted. The new
// value is not carried; interested parties re-read the key.
type Event struct {
	Key string
}

// Store is the injected persistence primitive.
//
// Contract:
//   - Get returns common.ErrNotFound for absent keys.
//   - Set/Delete notify all active subscribers of the same store (and, for
//     backends that support it, subscribers in other processes).
//   - Subscribe delivers events until ctx is canceled. Delivery is best
//     effort: slow consumers may miss events.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}
