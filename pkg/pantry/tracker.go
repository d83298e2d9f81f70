// Package pantry tracks uncommitted edits to the user's owned ingredients and
// reconciles them with the backend on save.
package pantry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrSaveInProgress is returned when Save is called while a previous save is
// still waiting on the backend.
var ErrSaveInProgress = errors.New("ingredient save already in progress")

// Saver submits an ingredient diff and returns the backend's authoritative
// owned-ingredient list.
type Saver interface {
	UpdateIngredients(ctx context.Context, added, removed []string) ([]string, error)
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, added, removed []string) ([]string, error)

// UpdateIngredients implements Saver.
func (f SaverFunc) UpdateIngredients(ctx context.Context, added, removed []string) ([]string, error) {
	return f(ctx, added, removed)
}

// State is the displayed ownership of one ingredient during an editing session.
type State int

const (
	Unowned State = iota
	PendingAdded
	Owned
	PendingRemoved
)

// String returns a display name for the state
func (s State) String() string {
	switch s {
	case Unowned:
		return "unowned"
	case PendingAdded:
		return "pending-add"
	case Owned:
		return "owned"
	case PendingRemoved:
		return "pending-remove"
	default:
		return "unknown"
	}
}

// IsOwned reports whether the ingredient is shown as owned.
func (s State) IsOwned() bool {
	return s == Owned || s == PendingAdded
}

// PendingEdits is the uncommitted diff against the server's owned set.
// An ID is never in both lists.
type PendingEdits struct {
	Added   []string `json:"newIngredients"`
	Removed []string `json:"removedIngredients"`
}

// IsEmpty returns true if there is nothing to save
func (p PendingEdits) IsEmpty() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0
}

// Tracker holds the displayed owned-ingredient list plus pending edits.
//
// Add and Remove update the displayed list immediately. Save submits the diff;
// on success the server's list replaces the local one and the diff is cleared,
// on failure nothing changes so the user can retry.
type Tracker struct {
	mu      sync.Mutex
	saver   Saver
	owned   []string
	added   map[string]bool
	removed map[string]bool
	saving  bool
}

// NewTracker creates a tracker seeded with the server's owned-ingredient list.
func NewTracker(saver Saver, owned []string) *Tracker {
	t := &Tracker{
		saver:   saver,
		added:   make(map[string]bool),
		removed: make(map[string]bool),
	}
	t.owned = dedupe(owned)
	return t
}

// Reset replaces the owned list with a fresh server copy and drops pending edits.
func (t *Tracker) Reset(owned []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owned = dedupe(owned)
	t.added = make(map[string]bool)
	t.removed = make(map[string]bool)
}

// Add marks id as owned. A pending removal of id is cancelled rather than
// stacked with an addition.
func (t *Tracker) Add(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.removed[id] {
		delete(t.removed, id)
	} else if !containsID(t.owned, id) {
		t.added[id] = true
	}
	if !containsID(t.owned, id) {
		t.owned = append(t.owned, id)
	}
}

// Remove marks id as not owned. A pending addition of id is cancelled.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.added[id] {
		delete(t.added, id)
	} else if containsID(t.owned, id) {
		t.removed[id] = true
	}
	t.owned = withoutID(t.owned, id)
}

// Toggle adds id if it is not shown as owned, otherwise removes it.
func (t *Tracker) Toggle(id string) State {
	if t.State(id).IsOwned() {
		t.Remove(id)
	} else {
		t.Add(id)
	}
	return t.State(id)
}

// Save submits pending edits. With nothing pending it returns nil without
// calling the backend. A concurrent call while one is in flight returns
// ErrSaveInProgress.
func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	if t.saving {
		t.mu.Unlock()
		return ErrSaveInProgress
	}
	pending := t.pendingLocked()
	if pending.IsEmpty() {
		t.mu.Unlock()
		return nil
	}
	t.saving = true
	t.mu.Unlock()

	serverOwned, err := t.saver.UpdateIngredients(ctx, pending.Added, pending.Removed)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.saving = false
	if err != nil {
		return fmt.Errorf("save ingredients: %w", err)
	}

	t.owned = dedupe(serverOwned)
	t.added = make(map[string]bool)
	t.removed = make(map[string]bool)
	return nil
}

// Saving reports whether a save is waiting on the backend.
func (t *Tracker) Saving() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saving
}

// Owned returns a copy of the displayed owned-ingredient IDs.
func (t *Tracker) Owned() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.owned))
	copy(out, t.owned)
	return out
}

// Pending returns the uncommitted diff with sorted IDs.
func (t *Tracker) Pending() PendingEdits {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingLocked()
}

// Dirty reports whether there are unsaved edits.
func (t *Tracker) Dirty() bool {
	return !t.Pending().IsEmpty()
}

// State reports the displayed ownership of id.
func (t *Tracker) State(id string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.added[id]:
		return PendingAdded
	case t.removed[id]:
		return PendingRemoved
	case containsID(t.owned, id):
		return Owned
	default:
		return Unowned
	}
}

func (t *Tracker) pendingLocked() PendingEdits {
	return PendingEdits{Added: sortedKeys(t.added), Removed: sortedKeys(t.removed)}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
