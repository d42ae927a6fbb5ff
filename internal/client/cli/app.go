package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/scanpack/internal/client/client"
	"github.com/dmitrijs2005/scanpack/internal/client/config"
	"github.com/dmitrijs2005/scanpack/internal/client/gate"
	"github.com/dmitrijs2005/scanpack/internal/client/services"
	"github.com/dmitrijs2005/scanpack/internal/client/session"
	"github.com/dmitrijs2005/scanpack/internal/client/storage"
	"github.com/dmitrijs2005/scanpack/internal/client/tokens"
	"github.com/dmitrijs2005/scanpack/internal/client/vault"
	"github.com/dmitrijs2005/scanpack/internal/common"
	"github.com/dmitrijs2005/scanpack/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// PublicRoute is what the gate's wrapped children render: the welcome and
// login flow.
const PublicRoute = "/"

type App struct {
	config      *config.Config
	store       *session.Store
	gate        *gate.Gate
	authService services.AuthService
	dataService services.DataService
	closers     []io.Closer
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer

	mu    sync.Mutex
	mode  Mode
	route string
}

// NewApp opens the session vault and wires the backend clients, the
// services and the gate. A vault that cannot be opened does not stop the
// client: the session simply is not persisted and the user has to log in.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store := session.New()
	a := &App{config: c, store: store, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	secure := a.openSecureStore(ctx)

	api := client.NewHTTPClient(c.ServerBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithTokenSource(store),
		client.WithUnauthorizedHandler(a.forceLogout),
		client.WithLogger(log.With("component", "api")),
	)

	var prober client.Prober
	if c.HealthGRPCAddr != "" {
		p, err := client.NewGRPCProber(c.HealthGRPCAddr, store, a.forceLogout)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, p)
		prober = p
	}

	a.wire(api, prober, storage.NewSessionStorage(secure))
	return a, nil
}

// wire builds the services and the gate on top of the given transports.
func (a *App) wire(api client.Client, prober client.Prober, sessions *storage.SessionStorage) {
	a.authService = services.NewAuthService(api, prober, sessions, a.store, a.log.With("component", "auth"))
	a.dataService = services.NewDataService(api)
	a.gate = gate.New(a.store, sessions,
		gate.WithLogger(a.log.With("component", "gate")),
		gate.WithMinSplash(a.config.MinSplash),
		gate.WithProtectedRoute(a.config.ProtectedRoute),
		gate.WithTokenCheck(tokens.Expired),
	)
}

func (a *App) openSecureStore(ctx context.Context) storage.SecureStore {
	if a.config.VaultPath == "" {
		a.log.Warn(ctx, "no vault path configured, session will not survive a restart")
		return storage.NewMemoryStore()
	}

	passphrase := []byte(a.config.VaultPassphrase)
	if len(passphrase) == 0 {
		var err error
		passphrase, err = getPassphrase(a.out)
		if err != nil {
			a.log.Warn(ctx, "vault passphrase unavailable", "error", err)
			return storage.Unavailable(err)
		}
	}
	defer common.WipeByteArray(passphrase)

	v, err := vault.OpenFile(ctx, a.config.VaultPath, passphrase)
	if errors.Is(err, vault.ErrWrongPassphrase) {
		printf(a.out, "Wrong vault passphrase, the saved session cannot be used.\n")
		if a.confirmVaultReset() {
			v, err = vault.ResetFile(ctx, a.config.VaultPath, passphrase)
			if err == nil {
				a.log.Warn(ctx, "vault reset, saved session discarded", "path", a.config.VaultPath)
				printf(a.out, "Vault reset. Please login again.\n")
			}
		}
	}
	if err != nil {
		a.log.Warn(ctx, "vault unavailable", "path", a.config.VaultPath, "error", err)
		return storage.Unavailable(err)
	}
	a.closers = append(a.closers, v)
	return v
}

// confirmVaultReset asks whether a vault that cannot be unlocked should be
// wiped and re-keyed with the passphrase just entered.
func (a *App) confirmVaultReset() bool {
	if a.reader == nil {
		return false
	}
	answer, err := getSimpleText(a.reader, "Reset the vault with this passphrase? The saved session will be lost [y/N]", a.out)
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the gate, the backend clients and the vault.
func (a *App) Close() {
	ctx := context.Background()
	if a.gate != nil {
		a.gate.Close()
	}
	if a.authService != nil {
		if err := a.authService.Close(ctx); err != nil {
			a.log.Warn(ctx, "closing api client", "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn(ctx, "closing resource", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().Authenticated()
}

// forceLogout runs when the backend rejects the token we sent.
func (a *App) forceLogout(ctx context.Context) {
	if !a.isLoggedIn() {
		return
	}
	a.log.Warn(ctx, "session rejected by server, signing out")
	if err := a.authService.Logout(context.WithoutCancel(ctx)); err != nil {
		a.log.Error(ctx, "forced logout", "error", err)
	}
}

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

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
