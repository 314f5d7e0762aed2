package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/config"
	"github.com/dmitrijs2005/nutrigate/internal/client/gate"
	"github.com/dmitrijs2005/nutrigate/internal/client/media"
	"github.com/dmitrijs2005/nutrigate/internal/client/services"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	identity services.IdentityService
	profiles services.ProfileService
	media    services.MediaService
	picker   media.Picker
	nav      *gate.Navigator
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	db       *sql.DB

	modeMu sync.RWMutex
	mode   Mode
}

// appDeps are the collaborators of an App. A nil decider means a gate
// over identity and profiles.
type appDeps struct {
	identity services.IdentityService
	profiles services.ProfileService
	media    services.MediaService
	picker   media.Picker
	decider  gate.Decider
	logger   logging.Logger
	in       io.Reader
	out      io.Writer
}

func newApp(c *config.Config, d appDeps) *App {
	decider := d.decider
	if decider == nil {
		decider = gate.New(d.identity, d.profiles, d.logger)
	}
	a := &App{
		config:   c,
		identity: d.identity,
		profiles: d.profiles,
		media:    d.media,
		picker:   d.picker,
		nav:      gate.NewNavigator(decider),
		logger:   d.logger.With("module", "cli"),
		reader:   bufio.NewReader(d.in),
		out:      d.out,
	}
	if a.picker == nil {
		a.picker = media.NewTerminalPicker(c.CaptureDir, a.prompt)
	}
	return a
}

// NewApp opens the local session store, connects to the server and restores
// the previous session, if any.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	repos := client.NewRepositories(db)

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr,
		client.WithTokensHook(services.PersistTokens(repos.Tokens, l)))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", c.ServerEndpointAddr, err)
	}

	identity := services.NewIdentityService(apiClient, repos.Tokens, repos.Preferences, l)
	if err := identity.Restore(ctx); err != nil {
		l.Warn(ctx, "starting without a saved session", "error", err)
	}

	a := newApp(c, appDeps{
		identity: identity,
		profiles: services.NewProfileService(apiClient),
		media:    services.NewMediaService(apiClient, &http.Client{Timeout: time.Minute}),
		logger:   l,
		in:       os.Stdin,
		out:      os.Stdout,
	})
	a.db = db
	return a, nil
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// Run shows the first screen and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.Close(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	a.println("Welcome to Nutrigate (type 'help' for commands)")
	if err := a.focus(ctx, gate.ScreenHome); err != nil {
		return err
	}

	runREPL(ctx, a, a.reader, a.out)
	return nil
}

func (a *App) Close(ctx context.Context) {
	if err := a.identity.Close(ctx); err != nil {
		a.logger.Warn(ctx, "close client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "close database", "error", err)
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.identity.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the server right away and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) prompt(p string) (string, error) {
	return GetSimpleText(a.reader, p, a.out)
}

func (a *App) secret(p string) ([]byte, error) {
	return GetPassword(a.reader, p, a.out)
}

func (a *App) confirm(p string) (bool, error) {
	return Confirm(a.reader, p, a.out)
}

func (a *App) alert(title, msg string) {
	fmt.Fprintf(a.out, "[%s] %s\n", title, msg)
}
