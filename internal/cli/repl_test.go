package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	roomActive bool

	calls []string
	lines []string
}

func (f *fakeExec) inRoom() bool { return f.roomActive }
func (f *fakeExec) signup(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	return nil
}
func (f *fakeExec) login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	return nil
}
func (f *fakeExec) logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	return nil
}
func (f *fakeExec) create(ctx context.Context) error {
	f.calls = append(f.calls, "create")
	return nil
}
func (f *fakeExec) join(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "join "+strings.Join(args, " "))
	f.roomActive = true
	return nil
}
func (f *fakeExec) listRooms(ctx context.Context) error {
	f.calls = append(f.calls, "rooms")
	return nil
}
func (f *fakeExec) mail(ctx context.Context) error {
	f.calls = append(f.calls, "mail")
	return nil
}
func (f *fakeExec) accept(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "accept "+strings.Join(args, " "))
	return nil
}
func (f *fakeExec) decline(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "decline "+strings.Join(args, " "))
	return nil
}
func (f *fakeExec) loadMore(ctx context.Context) error {
	f.calls = append(f.calls, "loadmore")
	return nil
}
func (f *fakeExec) dispatch(ctx context.Context, line string) {
	f.lines = append(f.lines, line)
	if line == "/leave" {
		f.roomActive = false
	}
}

func muteOutput(t *testing.T) {
	t.Helper()
	origPrintln, origPrintf := printlnFn, printfFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	printfFn = func(string, ...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn, printfFn = origPrintln, origPrintf })
}

func TestRunREPL_LobbyVerbsAndExit(t *testing.T) {
	muteOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"signup",
		"login",
		"rooms",
		"mail",
		"accept 1",
		"decline 2",
		"logout",
		"exit",
		"rooms", // never reached
	}, "\n"))

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"signup", "login", "rooms", "mail", "accept 1", "decline 2", "logout",
	}, f.calls)
}

func TestRunREPL_SlashLinesReachDispatcher(t *testing.T) {
	muteOutput(t)

	input := strings.NewReader("/whoami\n/setname Dana Scully\nexit\n")
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"/whoami", "/setname Dana Scully"}, f.lines)
}

func TestRunREPL_RoomLinesAreDispatched(t *testing.T) {
	muteOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"join k3x9q2",
		"hello everyone",
		"loadmore",
		"/leave",
		"mail",
		"exit",
	}, "\n"))

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"join k3x9q2", "loadmore", "mail"}, f.calls)
	assert.Equal(t, []string{"hello everyone", "/leave"}, f.lines)
}

func TestRunREPL_BlankLinesIgnored(t *testing.T) {
	muteOutput(t)

	input := strings.NewReader("\n   \nexit\n")
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(input))

	assert.Empty(t, f.calls)
	assert.Empty(t, f.lines)
}
