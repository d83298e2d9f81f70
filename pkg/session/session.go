// Package session owns the logged-in user's identity. All changes go through
// Session.Update and Session.Clear so that persistence and subscribers stay
// in step.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mixxbar/mixx/pkg/model"
)

// AuthState is the persisted identity of the current user.
type AuthState struct {
	LoggedIn  bool   `json:"loggedIn"`
	UserID    string `json:"userID,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// FromUser builds a logged-in state for user.
func FromUser(user model.User) AuthState {
	return AuthState{
		LoggedIn:  user.ID != "",
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// DisplayName is the greeting name, falling back to "Guest".
func (a AuthState) DisplayName() string {
	if !a.LoggedIn {
		return "Guest"
	}
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.UserID
	}
	return name
}

// Persister loads and saves auth state.
type Persister interface {
	Load(ctx context.Context) (AuthState, error)
	Save(ctx context.Context, st AuthState) error
}

// memoryPersister keeps state in process. Used when no data directory is available.
type memoryPersister struct {
	mu sync.Mutex
	st AuthState
}

// NewMemoryPersister returns a Persister that forgets everything on exit.
func NewMemoryPersister() Persister {
	return &memoryPersister{}
}

func (m *memoryPersister) Load(context.Context) (AuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st, nil
}

func (m *memoryPersister) Save(_ context.Context, st AuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = st
	return nil
}

// Session is the single source of truth for auth state.
type Session struct {
	mu     sync.RWMutex
	state  AuthState
	store  Persister
	subs   map[int]func(AuthState)
	nextID int
}

// New loads the persisted state from store.
func New(ctx context.Context, store Persister) (*Session, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{state: st, store: store, subs: make(map[int]func(AuthState))}, nil
}

// State returns a snapshot of the auth state.
func (s *Session) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// UserID returns the logged-in user's ID, or "" when logged out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.LoggedIn {
		return ""
	}
	return s.state.UserID
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn() bool {
	return s.State().LoggedIn
}

// Update stores a new logged-in identity.
func (s *Session) Update(ctx context.Context, user model.User) error {
	if user.ID == "" {
		return fmt.Errorf("update session: empty user id")
	}
	return s.set(ctx, FromUser(user))
}

// Rename changes the stored names of the current user.
func (s *Session) Rename(ctx context.Context, firstName, lastName string) error {
	st := s.State()
	if !st.LoggedIn {
		return fmt.Errorf("rename session: not logged in")
	}
	st.FirstName, st.LastName = firstName, lastName
	return s.set(ctx, st)
}

// Clear logs out locally.
func (s *Session) Clear(ctx context.Context) error {
	return s.set(ctx, AuthState{})
}

// Reload re-reads the persisted state, picking up changes made by another
// process. Subscribers are notified only if the state changed.
func (s *Session) Reload(ctx context.Context) (bool, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("reload session: %w", err)
	}
	s.mu.Lock()
	if st == s.state {
		s.mu.Unlock()
		return false, nil
	}
	s.state = st
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return true, nil
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(AuthState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) set(ctx context.Context, st AuthState) error {
	if err := s.store.Save(ctx, st); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.mu.Lock()
	s.state = st
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return nil
}

func (s *Session) subscribersLocked() []func(AuthState) {
	out := make([]func(AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
