// Package session holds the process-wide authentication state: the current
// user, the bearer token and whether restoration from storage is still
// pending. A Store is constructed once and passed to whoever needs it.
package session

import (
	"sync"

	"github.com/dmitrijs2005/scanpack/internal/client/models"
	"github.com/dmitrijs2005/scanpack/internal/common"
)

// Snapshot is a copy of the store state at one point in time.
type Snapshot struct {
	User      *models.User
	Token     string
	IsLoading bool
}

// Authenticated reports whether the snapshot carries a credential.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

func (s Snapshot) equal(o Snapshot) bool {
	if s.Token != o.Token || s.IsLoading != o.IsLoading {
		return false
	}
	if (s.User == nil) != (o.User == nil) {
		return false
	}
	return s.User == nil || *s.User == *o.User
}

// Store is safe for concurrent use. Observers registered with Subscribe are
// called synchronously after every mutation that changed the snapshot.
type Store struct {
	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool

	subsMu sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// New returns a store in the start-up shape: no credentials, loading.
func New() *Store {
	return &Store{loading: true, subs: make(map[int]func(Snapshot))}
}

// SetCredentials stores the user/token pair and ends loading.
// An empty token or a user without an id is rejected with
// common.ErrEmptyCredentials and the state is left as it was.
func (s *Store) SetCredentials(user models.User, token string) error {
	if token == "" || !user.Valid() {
		return common.ErrEmptyCredentials
	}

	u := user
	s.mutate(func() {
		s.user = &u
		s.token = token
		s.loading = false
	})
	return nil
}

// Logout drops the credentials and ends loading. Calling it on a logged out
// store changes nothing and notifies nobody.
func (s *Store) Logout() {
	s.mutate(func() {
		s.user = nil
		s.token = ""
		s.loading = false
	})
}

// FinishLoading ends loading without touching the credentials.
func (s *Store) FinishLoading() {
	s.mutate(func() {
		s.loading = false
	})
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Token: s.token, IsLoading: s.loading}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	before := s.snapshotLocked()
	fn()
	after := s.snapshotLocked()
	s.mu.Unlock()

	if before.equal(after) {
		return
	}
	s.notify(after)
}

func (s *Store) notify(snap Snapshot) {
	s.subsMu.Lock()
	observers := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
