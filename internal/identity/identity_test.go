package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/termrooms/internal/common"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewMemoryStore(), []byte("test-secret"))
}

func TestResolve_GuestByDefault(t *testing.T) {
	s := newService(t)
	id := s.Resolve(context.Background())

	assert.Equal(t, models.IdentityGuest, id.Kind)
	assert.Empty(t, id.Username)
	assert.Regexp(t, `^Guest-\d{4}$`, id.DisplayName)
	assert.False(t, id.Authenticated())
}

func TestSignup_CreatesAccountAndSession(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Signup(ctx, "alice", "123456", "Alice"))

	id := s.Resolve(ctx)
	assert.Equal(t, models.IdentityOwner, id.Kind)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "Alice", id.DisplayName)

	acct, err := s.FindAccount(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", acct.PinHash, "PIN must not be stored in the clear")
}

func TestSignup_RejectsBadPinAndDuplicates(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	err := s.Signup(ctx, "alice", "12345", "Alice")
	assert.True(t, errors.Is(err, common.ErrValidation))

	err = s.Signup(ctx, "alice", "abcdef", "Alice")
	assert.True(t, errors.Is(err, common.ErrValidation))

	require.NoError(t, s.Signup(ctx, "alice", "123456", "Alice"))
	err = s.Signup(ctx, "alice", "654321", "Alice2")
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestLogin_WrongCredentials(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Signup(ctx, "alice", "123456", "Alice"))
	require.NoError(t, s.Logout(ctx))

	assert.True(t, errors.Is(s.Login(ctx, "alice", "000000"), common.ErrCredential))
	assert.True(t, errors.Is(s.Login(ctx, "nobody", "123456"), common.ErrCredential))

	require.NoError(t, s.Login(ctx, "alice", "123456"))
	assert.Equal(t, "alice", s.Resolve(ctx).Username)
}

func TestLogout_RegeneratesGuestName(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	first := s.Resolve(ctx).DisplayName
	require.NoError(t, s.Signup(ctx, "alice", "123456", "Alice"))
	require.NoError(t, s.Logout(ctx))

	id := s.Resolve(ctx)
	assert.Equal(t, models.IdentityGuest, id.Kind)
	assert.Regexp(t, `^Guest-\d{4}$`, id.DisplayName)
	// Regeneration makes a collision with the pre-signup name unlikely but
	// not impossible, so only the format is asserted against `first`.
	_ = first
}

func TestSetDisplayName_AccountPersistsAcrossLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.Signup(ctx, "alice", "123456", "Alice"))
	require.NoError(t, s.SetDisplayName(ctx, "Alice P."))
	assert.Equal(t, "Alice P.", s.Resolve(ctx).DisplayName)

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Login(ctx, "alice", "123456"))
	assert.Equal(t, "Alice P.", s.Resolve(ctx).DisplayName)
}

func TestSetDisplayName_GuestIsEphemeral(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.SetDisplayName(ctx, "drifter"))
	assert.Equal(t, "drifter", s.Resolve(ctx).DisplayName)

	// empty name rolls a fresh guest name
	require.NoError(t, s.SetDisplayName(ctx, ""))
	assert.Regexp(t, `^Guest-\d{4}$`, s.Resolve(ctx).DisplayName)
}

func TestResolve_TamperedSessionFallsBackToGuest(t *testing.T) {
	st := store.NewMemoryStore()
	s := NewService(st, []byte("test-secret"))
	ctx := context.Background()

	require.NoError(t, s.Signup(ctx, "alice", "123456", "Alice"))
	require.NoError(t, st.Set(ctx, store.KeySession, []byte("not-a-token")))

	id := s.Resolve(ctx)
	assert.Equal(t, models.IdentityGuest, id.Kind)
}
