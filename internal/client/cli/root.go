package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/scanpack/internal/client/gate"
)

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func (a *App) getStatus() string {
	s := ""
	if snap := a.store.Snapshot(); snap.User != nil {
		s = snap.User.UserContact + " "
	}
	if mode := a.currentMode(); mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) currentRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// render shows what the gate decided. Only route changes print anything.
func (a *App) render(d gate.Decision) {
	route := ""
	switch d.Kind {
	case gate.DecisionRedirect:
		route = d.Route
	case gate.DecisionRenderChildren:
		route = PublicRoute
	}

	a.mu.Lock()
	if route == a.route && route != "" {
		a.mu.Unlock()
		return
	}
	a.route = route
	a.mu.Unlock()

	switch d.Kind {
	case gate.DecisionLoading:
		printf(a.out, "Restoring session...\n")
	case gate.DecisionRedirect:
		contact := ""
		if snap := a.store.Snapshot(); snap.User != nil {
			contact = snap.User.UserContact
		}
		printf(a.out, "Signed in as %s. Opened %s (type 'help' for commands)\n", contact, d.Route)
	case gate.DecisionRenderChildren:
		printf(a.out, "Welcome to scanpack. Type 'login' to sign in, 'help' for commands.\n")
	}
}

// Root mounts the gate, waits for the stored session to be restored, and
// then hands the terminal to the REPL. No command is read before the gate
// has left the restoring state.
func (a *App) Root(ctx context.Context) {
	unsubscribe := a.gate.Subscribe(a.render)
	defer unsubscribe()

	a.render(a.gate.Decide())
	done := a.gate.Mount(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		return
	}
	a.render(a.gate.Decide())

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
