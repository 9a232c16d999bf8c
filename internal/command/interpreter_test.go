package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/termrooms/internal/identity"
	"github.com/dmitrijs2005/termrooms/internal/logging"
	"github.com/dmitrijs2005/termrooms/internal/models"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
	"github.com/dmitrijs2005/termrooms/internal/store"
)

type fakeNav struct {
	homeCalls  int
	guideCalls int
}

func (n *fakeNav) Home()  { n.homeCalls++ }
func (n *fakeNav) Guide() { n.guideCalls++ }

type fixture struct {
	it   *Interpreter
	ids  *identity.Service
	repo *rooms.Repository
	st   *store.MemoryStore
	nav  *fakeNav
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	ids := identity.NewService(st, []byte("test-secret"))
	repo := rooms.NewRepository(st)
	nav := &fakeNav{}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &fixture{
		it:   New(ids, repo, nav, log),
		ids:  ids,
		repo: repo,
		st:   st,
		nav:  nav,
	}
}

func lastEntry(t *testing.T, it *Interpreter) Entry {
	t.Helper()
	entries := it.Feedback().Entries()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

func (f *fixture) signup(t *testing.T, ctx context.Context, username, displayName string) {
	t.Helper()
	require.NoError(t, f.ids.Signup(ctx, username, "123456", displayName))
}

func (f *fixture) createRoom(t *testing.T, ctx context.Context, name, owner, ownerDisplay, password string) *models.Room {
	t.Helper()
	room, err := f.repo.CreateRoom(ctx, rooms.CreateRoomParams{
		Name:             name,
		Password:         password,
		OwnerUsername:    owner,
		OwnerDisplayName: ownerDisplay,
	})
	require.NoError(t, err)
	return room
}

// backdateRoomActivity rewrites the stored room record with an old activity
// stamp so a later refresh is observable.
func backdateRoomActivity(t *testing.T, ctx context.Context, f *fixture, roomID string, at time.Time) {
	t.Helper()
	raw, err := f.st.Get(ctx, store.KeyRooms)
	require.NoError(t, err)
	var all []models.Room
	require.NoError(t, json.Unmarshal(raw, &all))
	for i := range all {
		if all[i].ID == roomID {
			all[i].LastActiveAt = at
		}
	}
	raw, err = json.Marshal(all)
	require.NoError(t, err)
	require.NoError(t, f.st.Set(ctx, store.KeyRooms, raw))
}

func TestExecuteBlankLineIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "   ")
	assert.Empty(t, f.it.Feedback().Entries())
}

func TestExecuteUnknownCommand(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/bogus now")
	entry := lastEntry(t, f.it)
	assert.Equal(t, "Unknown command: /bogus. Try /help.", entry.Text)
	assert.Equal(t, VariantDanger, entry.Variant)
}

func TestChatOutsideRoomWarns(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "hello")
	entry := lastEntry(t, f.it)
	assert.Equal(t, "Join a room to chat, or try /help", entry.Text)
	assert.Equal(t, VariantWarning, entry.Variant)
}

func TestChatAppendsMessageAndTouchesRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.it.SetCurrentRoom(room.ID)

	f.it.Execute(ctx, "hello there")

	msgs, err := f.repo.ListMessages(ctx, room.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Alice", msgs[0].User)
	assert.Equal(t, "hello there", msgs[0].Text)
	assert.Equal(t, models.MessageChat, msgs[0].Type)
}

func TestHelpRendersCatalog(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/help")
	entries := f.it.Feedback().Entries()
	require.NotEmpty(t, entries)
	found := false
	for _, e := range entries {
		if e.Text == "Leader only (Room owner)" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGuideNavigates(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/guide")
	assert.Equal(t, 1, f.nav.guideCalls)
	assert.Equal(t, "Opening guide...", lastEntry(t, f.it).Text)
}

func TestWhoamiInLobbyAndInRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")

	f.it.Execute(ctx, "/whoami")
	assert.Equal(t, "You are Alice (owner).", lastEntry(t, f.it).Text)

	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.it.SetCurrentRoom(room.ID)
	f.it.Execute(ctx, "/whoami")
	assert.Equal(t,
		fmt.Sprintf("You are Alice (owner). Room: Ops [%s], role: leader.", room.ID),
		lastEntry(t, f.it).Text)
}

func TestSetnameUpdatesDisplayName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")

	f.it.Execute(ctx, "/setname Alice B")
	entry := lastEntry(t, f.it)
	assert.Equal(t, "Display name updated to Alice B", entry.Text)
	assert.Equal(t, VariantSuccess, entry.Variant)
	assert.Equal(t, "Alice B", f.ids.Resolve(ctx).DisplayName)
}

func TestSetnameRequiresArgument(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/setname")
	entry := lastEntry(t, f.it)
	assert.Equal(t, "Usage: /setname Display Name", entry.Text)
	assert.Equal(t, VariantWarning, entry.Variant)
}

func TestLeaveReturnsToLobby(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.it.SetCurrentRoom(room.ID)

	f.it.Execute(ctx, "/leave")

	assert.Equal(t, "", f.it.CurrentRoom())
	assert.Equal(t, 1, f.nav.homeCalls)
	assert.Equal(t, "Left the room.", lastEntry(t, f.it).Text)
}

func TestLeaveOutsideRoomWarns(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/leave")
	assert.Equal(t, "You are not in a room", lastEntry(t, f.it).Text)
}

func TestDeleteByNonOwnerFailsAndRoomPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")

	// Caller never signed in, so this runs as a guest.
	f.it.Execute(ctx, "/delete "+room.ID)

	entry := lastEntry(t, f.it)
	assert.Equal(t, "Only the room owner can delete a room", entry.Text)
	assert.Equal(t, VariantDanger, entry.Variant)
	_, err := f.repo.GetRoom(ctx, room.ID)
	assert.NoError(t, err)
}

func TestDeleteByOwnerRemovesRoomAndRedirects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.it.SetCurrentRoom(room.ID)

	f.it.Execute(ctx, "/delete "+room.ID)

	assert.Equal(t, fmt.Sprintf("Room %s deleted.", room.ID), lastEntry(t, f.it).Text)
	assert.Equal(t, "", f.it.CurrentRoom())
	assert.Equal(t, 1, f.nav.homeCalls)
	_, err := f.repo.GetRoom(ctx, room.ID)
	assert.Error(t, err)
}

func TestDeleteArityCheckedBeforeRoomState(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/delete")
	entry := lastEntry(t, f.it)
	assert.Equal(t, "Usage: /delete <room-id>", entry.Text)
	assert.Equal(t, VariantWarning, entry.Variant)
}

func TestTopicViewSetAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.it.SetCurrentRoom(room.ID)

	f.it.Execute(ctx, "/topic")
	assert.Equal(t, "No topic set.", lastEntry(t, f.it).Text)

	f.it.Execute(ctx, "/topic deploy friday")
	assert.Equal(t, `Topic set to "deploy friday".`, lastEntry(t, f.it).Text)

	f.it.Execute(ctx, "/topic")
	assert.Equal(t, "Topic: deploy friday", lastEntry(t, f.it).Text)

	f.it.Execute(ctx, "/topic clear")
	assert.Equal(t, "Topic cleared.", lastEntry(t, f.it).Text)

	updated, err := f.repo.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "", updated.Topic)
}

func TestTopicSetAndClearBothRefreshActivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.it.SetCurrentRoom(room.ID)

	stale := time.Now().Add(-time.Hour)

	backdateRoomActivity(t, ctx, f, room.ID, stale)
	f.it.Execute(ctx, "/topic deploy friday")
	updated, err := f.repo.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, updated.LastActiveAt.After(stale))

	backdateRoomActivity(t, ctx, f, room.ID, stale)
	f.it.Execute(ctx, "/topic clear")
	assert.Equal(t, "Topic cleared.", lastEntry(t, f.it).Text)
	updated, err = f.repo.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, updated.LastActiveAt.After(stale))
}

func TestTopicSetRequiresLeader(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	f.signup(t, ctx, "bob", "Bob")
	require.NoError(t, f.repo.AddParticipant(ctx, room.ID, models.Participant{
		Username: "bob", DisplayName: "Bob", Role: string(models.RoleMember),
	}))
	f.it.SetCurrentRoom(room.ID)

	f.it.Execute(ctx, "/topic new topic")
	entry := lastEntry(t, f.it)
	assert.Equal(t, "Only the leader can change the topic", entry.Text)
	assert.Equal(t, VariantDanger, entry.Variant)

	// The argument-free view form still works for a member.
	f.it.Execute(ctx, "/topic")
	assert.Equal(t, "No topic set.", lastEntry(t, f.it).Text)
}

// The room watcher clears the current room from its own goroutine while the
// session keeps reading it, so both accessors must tolerate concurrent use.
func TestCurrentRoomSafeAcrossGoroutines(t *testing.T) {
	f := newFixture(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			f.it.SetCurrentRoom("")
			f.it.SetCurrentRoom("abc123")
		}
	}()
	for i := 0; i < 500; i++ {
		got := f.it.CurrentRoom()
		if got != "" && got != "abc123" {
			t.Fatalf("unexpected room id %q", got)
		}
	}
	<-done

	assert.Equal(t, "abc123", f.it.CurrentRoom())
}

func TestRelayIntoPasswordProtectedRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	source := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	target := f.createRoom(t, ctx, "War Room", "bob", "Bob", "hunter2")
	f.it.SetCurrentRoom(source.ID)

	f.it.Execute(ctx, fmt.Sprintf("/relay %s wrong hello", target.ID))
	assert.Equal(t, "Wrong password for room "+target.ID, lastEntry(t, f.it).Text)

	f.it.Execute(ctx, fmt.Sprintf("/relay %s hunter2 incoming deploy", target.ID))
	assert.Equal(t, "Relayed to "+target.ID+".", lastEntry(t, f.it).Text)

	msgs, err := f.repo.ListMessages(ctx, target.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Alice (relay)", msgs[0].User)
	assert.Equal(t, "incoming deploy", msgs[0].Text)
}

func TestRelayOwnerSkipsPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	source := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	target := f.createRoom(t, ctx, "Sealed", "alice", "Alice", "hunter2")
	f.it.SetCurrentRoom(source.ID)

	f.it.Execute(ctx, fmt.Sprintf("/relay %s hello over there", target.ID))
	assert.Equal(t, "Relayed to "+target.ID+".", lastEntry(t, f.it).Text)

	msgs, err := f.repo.ListMessages(ctx, target.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello over there", msgs[0].Text)
}

func TestRelayRequiresRoleAboveGuest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")
	target := f.createRoom(t, ctx, "Other", "alice", "Alice", "")
	f.it.SetCurrentRoom(source.ID)

	f.it.Execute(ctx, fmt.Sprintf("/relay %s hello", target.ID))
	assert.Equal(t, "You must be a participant of this room to relay", lastEntry(t, f.it).Text)
}

func TestClearResetsFeedback(t *testing.T) {
	f := newFixture(t)
	f.it.Execute(context.Background(), "/help")
	require.NotEmpty(t, f.it.Feedback().Entries())
	f.it.Execute(context.Background(), "/clear")
	assert.Empty(t, f.it.Feedback().Entries())
}

func TestFeedbackRingCapsAtLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < FeedbackLimit+5; i++ {
		f.it.Feedback().Push(fmt.Sprintf("line %d", i), VariantInfo)
	}
	entries := f.it.Feedback().Entries()
	require.Len(t, entries, FeedbackLimit)
	assert.Equal(t, "line 5", entries[0].Text)
	assert.Equal(t, fmt.Sprintf("line %d", FeedbackLimit+4), entries[FeedbackLimit-1].Text)
}

func TestRecentListAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, ctx, "alice", "Alice")
	room := f.createRoom(t, ctx, "Ops", "alice", "Alice", "")

	f.it.Execute(ctx, "/recent")
	assert.Contains(t, lastEntry(t, f.it).Text, room.ID)

	f.it.Execute(ctx, "/recent clear")
	assert.Equal(t, "Recent rooms cleared.", lastEntry(t, f.it).Text)

	f.it.Execute(ctx, "/recent")
	assert.Equal(t, "No recent rooms.", lastEntry(t, f.it).Text)
}
