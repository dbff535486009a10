// Package registry owns every opened device connection and file parse behind
// opaque integer handles. It is the only place in the library with mutable
// shared state.
package registry

import (
	"sync"

	"go.uber.org/multierr"
)

// Entry is anything the registry can own. Close releases the entry's
// resources; for immutable entries it is a no-op.
type Entry interface {
	Close() error
}

// Registry is a thread-safe mapping from opaque integer handles to entries.
// Handle allocation is monotonically increasing and never reused within a
// process lifetime, so a stale handle can never silently address a newer
// unrelated resource.
type Registry struct {
	mu      sync.RWMutex
	entries map[int32]Entry
	next    int32
}

// New creates an empty registry. Handles start at 1; 0 and negatives are
// reserved as failure sentinels at the C boundary.
func New() *Registry {
	return &Registry{entries: make(map[int32]Entry), next: 1}
}

// Add stores the entry and returns its freshly allocated handle.
func (r *Registry) Add(e Entry) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.next
	r.next++
	r.entries[h] = e
	return h
}

// Get resolves a handle. The second result is false for unknown or closed
// handles.
func (r *Registry) Get(h int32) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[h]
	return e, ok
}

// Close removes the entry and releases its resources. Closing an unknown or
// already-closed handle is a no-op success, so callers never need to track
// double-close. The entry's own Close runs outside the registry lock so that
// slow transport teardown cannot block real-time delivery on other handles.
func (r *Registry) Close(h int32) error {
	r.mu.Lock()
	e, ok := r.entries[h]
	if ok {
		delete(r.entries, h)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return e.Close()
}

// CloseAll tears down every live entry, aggregating errors. Used when the
// host unloads the library.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	entries := make([]Entry, 0, len(r.entries))
	for h, e := range r.entries {
		entries = append(entries, e)
		delete(r.entries, h)
	}
	r.mu.Unlock()

	var err error
	for _, e := range entries {
		err = multierr.Append(err, e.Close())
	}
	return err
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
