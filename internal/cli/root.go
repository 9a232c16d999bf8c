package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn and printfFn are test seams for user-facing output.
// In tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printfFn  = fmt.Printf
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	inRoom() bool
	signup(ctx context.Context) error
	login(ctx context.Context) error
	logout(ctx context.Context) error
	create(ctx context.Context) error
	join(ctx context.Context, args []string) error
	listRooms(ctx context.Context) error
	mail(ctx context.Context) error
	accept(ctx context.Context, args []string) error
	decline(ctx context.Context, args []string) error
	loadMore(ctx context.Context) error
	dispatch(ctx context.Context, line string)
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to TermRooms (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL is the read-eval-print loop shared by the lobby and the room view.
//
// Inside a room every line goes to the slash-command interpreter (plain text
// is chat), except "loadmore", which extends the visible history window, and
// "exit"/"quit". In the lobby the first token selects a lobby verb; lines
// starting with "/" still reach the interpreter so the global commands work
// everywhere.
//
// Errors returned by handlers are ignored here; handlers print their own
// messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tr %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if a.inRoom() {
			switch line {
			case "exit", "quit":
				printlnFn("Bye!")
				return
			case "loadmore":
				_ = a.loadMore(ctx)
			default:
				a.dispatch(ctx, line)
			}
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		if strings.HasPrefix(cmd, "/") {
			a.dispatch(ctx, line)
			continue
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: signup, login, logout, create, join <room-id> [password], rooms, mail, accept <n>, decline <n>, exit")
			printlnFn("Slash commands work here too; try /help.")

		case "signup":
			_ = a.signup(ctx)

		case "login":
			_ = a.login(ctx)

		case "logout":
			_ = a.logout(ctx)

		case "create":
			_ = a.create(ctx)

		case "join":
			_ = a.join(ctx, args)

		case "rooms":
			_ = a.listRooms(ctx)

		case "mail":
			_ = a.mail(ctx)

		case "accept":
			_ = a.accept(ctx, args)

		case "decline":
			_ = a.decline(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
