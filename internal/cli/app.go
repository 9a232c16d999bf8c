// Package cli implements the interactive terminal client: the lobby REPL,
// the room view with live updates, and the prompt flows for signing up,
// joining rooms, and answering invites. Slash commands are delegated to the
// command interpreter; the lobby verbs (signup, join, mail, ...) live here.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/termrooms/internal/command"
	"github.com/dmitrijs2005/termrooms/internal/config"
	"github.com/dmitrijs2005/termrooms/internal/filex"
	"github.com/dmitrijs2005/termrooms/internal/identity"
	"github.com/dmitrijs2005/termrooms/internal/logging"
	"github.com/dmitrijs2005/termrooms/internal/rooms"
	"github.com/dmitrijs2005/termrooms/internal/store"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	store  store.Store
	ids    *identity.Service
	repo   *rooms.Repository
	interp *command.Interpreter
	log    logging.Logger
	reader *bufio.Reader

	// rendered is the feedback high-water mark: how many pushed lines have
	// already been printed. Only dispatch on the REPL goroutine touches it.
	rendered int

	// mu guards the fields shared with the watcher goroutine.
	mu          sync.Mutex
	loaded      int
	cancelWatch context.CancelFunc
	watchDone   chan struct{}
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := openStore(ctx, c)
	if err != nil {
		log.Error(ctx, "failed to open store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	a := &App{
		config: c,
		store:  st,
		ids:    identity.NewService(st, []byte(c.SessionSecret)),
		repo:   rooms.NewRepository(st),
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}
	a.interp = command.New(a.ids, a.repo, a, log)
	return a, nil
}

// openStore picks the store implementation named in the config. Bare SQLite
// file names are placed under a ./data directory next to the binary.
func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendSQLite:
		dsn := c.DatabaseDSN
		if dsn != ":memory:" && filepath.Dir(dsn) == "." {
			dir, err := filex.EnsureSubdDir("data")
			if err != nil {
				return nil, err
			}
			dsn = filepath.Join(dir, dsn)
		}
		return store.NewSQLiteStore(ctx, dsn)
	case config.BackendRedis:
		return store.NewRedisStore(ctx, c.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	a.Root(ctx)
}

func (a *App) inRoom() bool {
	return a.interp.CurrentRoom() != ""
}

const lobbyBanner = "Back in the lobby. Type 'help' for commands."

// Home returns the terminal to the lobby. Implements command.Navigator.
func (a *App) Home() {
	a.stopWatcher()
	printlnFn(lobbyBanner)
}

// Guide prints the onboarding guide. Implements command.Navigator.
func (a *App) Guide() {
	printlnFn(guideText)
}

func (a *App) getStatus() string {
	ctx := context.Background()
	id := a.ids.Resolve(ctx)
	s := id.DisplayName
	if roomID := a.interp.CurrentRoom(); roomID != "" {
		s = s + " room:" + roomID
	}
	return fmt.Sprintf("(%s)", s)
}

// dispatch routes a raw input line through the slash-command interpreter and
// prints whatever feedback it produced.
func (a *App) dispatch(ctx context.Context, line string) {
	a.interp.Execute(ctx, line)
	a.renderFeedback()
}

// renderFeedback prints the feedback lines pushed since the last render. The
// buffer itself is left alone so its history keeps accumulating until /clear.
func (a *App) renderFeedback() {
	fb := a.interp.Feedback()
	entries := fb.Entries()
	fresh := fb.Pushed() - a.rendered
	if fresh > len(entries) {
		fresh = len(entries)
	}
	if fresh > 0 {
		for _, e := range entries[len(entries)-fresh:] {
			printfFn("[%s] %s\n", e.Variant, e.Text)
		}
	}
	a.rendered = fb.Pushed()
}
