// Package gate guards the navigable screen tree. On mount it restores the
// persisted session once, blocks rendering until that finishes, then sends
// authenticated users to the protected entry point and lets everyone else
// through to the public flow it wraps.
package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/scanpack/internal/client/session"
	"github.com/dmitrijs2005/scanpack/internal/client/storage"
	"github.com/dmitrijs2005/scanpack/internal/logging"
)

// DefaultProtectedRoute is where authenticated users are redirected.
const DefaultProtectedRoute = "/dashboards/dashboard"

// SessionReader loads the persisted session. (nil, nil) means none.
type SessionReader interface {
	GetSession(ctx context.Context) (*storage.Session, error)
}

type Option func(*Gate)

func WithLogger(l logging.Logger) Option {
	return func(g *Gate) { g.log = l }
}

// WithMinSplash keeps the gate in StateRestoring for at least d after
// Mount, even if restoration finishes sooner.
func WithMinSplash(d time.Duration) Option {
	return func(g *Gate) { g.minSplash = d }
}

func WithProtectedRoute(route string) Option {
	return func(g *Gate) { g.route = route }
}

// WithTokenCheck installs a predicate that rejects a restored token, for
// example because it has expired. A rejected session restores as none.
func WithTokenCheck(expired func(token string, now time.Time) bool) Option {
	return func(g *Gate) { g.tokenExpired = expired }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

type Gate struct {
	store  *session.Store
	reader SessionReader

	log          logging.Logger
	minSplash    time.Duration
	route        string
	tokenExpired func(token string, now time.Time) bool
	now          func() time.Time

	mountOnce    sync.Once
	done         chan struct{}
	splashPassed atomic.Bool

	publishMu   sync.Mutex
	mu          sync.Mutex
	last        Decision
	subs        map[int]func(Decision)
	nextID      int
	unsubscribe func()
}

func New(store *session.Store, reader SessionReader, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		reader: reader,
		log:    logging.Nop(),
		route:  DefaultProtectedRoute,
		now:    time.Now,
		done:   make(chan struct{}),
		subs:   make(map[int]func(Decision)),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.last = g.Decide()
	g.unsubscribe = store.Subscribe(func(session.Snapshot) { g.publish() })
	return g
}

// Mount starts restoration. Only the first call does anything; every call
// returns the same channel, closed once restoration (and the minimum splash)
// has finished or ctx was cancelled.
func (g *Gate) Mount(ctx context.Context) <-chan struct{} {
	g.mountOnce.Do(func() {
		go g.run(ctx)
	})
	return g.done
}

// Close detaches the gate from the store.
func (g *Gate) Close() {
	g.unsubscribe()
}

// State derives the gate state from the store.
func (g *Gate) State() State {
	snap := g.store.Snapshot()
	if snap.IsLoading || !g.splashPassed.Load() {
		return StateRestoring
	}
	if snap.Authenticated() {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// Decide maps the current state to a render decision.
func (g *Gate) Decide() Decision {
	switch g.State() {
	case StateAuthenticated:
		return Decision{Kind: DecisionRedirect, Route: g.route}
	case StateUnauthenticated:
		return Decision{Kind: DecisionRenderChildren}
	default:
		return Decision{Kind: DecisionLoading}
	}
}

// Subscribe calls fn with every new decision. Repeated identical decisions
// are delivered once. fn must not change the session store synchronously.
func (g *Gate) Subscribe(fn func(Decision)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

func (g *Gate) run(ctx context.Context) {
	defer close(g.done)

	var splash <-chan time.Time
	if g.minSplash > 0 {
		timer := time.NewTimer(g.minSplash)
		defer timer.Stop()
		splash = timer.C
	} else {
		g.splashPassed.Store(true)
	}

	g.restore(ctx)

	if splash == nil {
		return
	}
	select {
	case <-splash:
		g.splashPassed.Store(true)
		g.publish()
	case <-ctx.Done():
	}
}

// restore never lets a failure turn into an authenticated state: errors,
// absence and rejected sessions all just end loading.
func (g *Gate) restore(ctx context.Context) {
	sess, err := g.reader.GetSession(ctx)
	if ctx.Err() != nil {
		g.log.Debug(ctx, "session restore abandoned", "reason", ctx.Err())
		return
	}

	switch {
	case err != nil:
		g.log.Warn(ctx, "session restore failed", "error", err)
	case sess == nil:
		g.log.Info(ctx, "no stored session")
	case g.tokenExpired != nil && g.tokenExpired(sess.Token, g.now()):
		g.log.Info(ctx, "stored session expired", "user_id", sess.User.ID)
	default:
		if err := g.store.SetCredentials(sess.User, sess.Token); err != nil {
			g.log.Warn(ctx, "stored session rejected", "error", err)
			break
		}
		g.log.Info(ctx, "session restored", "user_id", sess.User.ID)
		return
	}

	g.store.FinishLoading()
}

// publish runs one caller at a time, so decisions reach observers in the
// order they were evaluated.
func (g *Gate) publish() {
	g.publishMu.Lock()
	defer g.publishMu.Unlock()

	g.mu.Lock()
	decision := g.Decide()
	if decision == g.last {
		g.mu.Unlock()
		return
	}
	g.last = decision
	observers := make([]func(Decision), 0, len(g.subs))
	for _, fn := range g.subs {
		observers = append(observers, fn)
	}
	g.mu.Unlock()

	for _, fn := range observers {
		fn(decision)
	}
}
