package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const roomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RoomIDLength is the fixed length of generated room identifiers.
const RoomIDLength = 6

// NewRoomID returns a random 6-character lowercase alphanumeric room id.
// Uniqueness is the caller's concern (collision retry at the repository).
func NewRoomID() string {
	return randString(roomIDAlphabet, RoomIDLength)
}

// NewGuestName returns a display name of the form "Guest-####" with a random
// four-digit suffix in [1000, 9999].
func NewGuestName() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; there is no
		// reasonable fallback for the rest of the program either.
		panic(err)
	}
	return fmt.Sprintf("Guest-%d", 1000+n.Int64())
}

func randString(alphabet string, size int) string {
	b := make([]byte, size)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}
