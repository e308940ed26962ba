// Package runtime holds the live, in-memory state of the chat system: which
// users are connected, which handles joined which room feed, and how events
// reach them. Everything here is transient, rebuilt as clients reconnect.
package runtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
)

// Registry maps every connected handle, and indexes the identified ones by
// user. A user keeps its presence entry as long as at least one of its
// handles is alive, which is what makes multi-device sessions survive a
// single tab closing.
//
// The onChange hook fires after an identified mutation is committed and the
// lock released, so presence recomputation never runs under the lock and
// never stalls unrelated registrations behind a slow client push.
type Registry struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*contract.Handle
	byUser   map[domain.UserID]map[uuid.UUID]*contract.Handle
	onChange func()
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uuid.UUID]*contract.Handle),
		byUser: make(map[domain.UserID]map[uuid.UUID]*contract.Handle),
	}
}

// OnChange installs the hook invoked after every presence-affecting
// mutation. Wired once at startup, before any client connects.
func (r *Registry) OnChange(fn func()) {
	r.onChange = fn
}

// Register associates the handle with its user. It always succeeds:
// registering the same handle twice is idempotent, last write wins.
// Anonymous handles are tracked so broadcasts reach them, but they create
// no presence entry and trigger no recomputation.
func (r *Registry) Register(h *contract.Handle) {
	r.mu.Lock()
	r.byID[h.ID] = h
	if !h.Anonymous() {
		handles, ok := r.byUser[h.User]
		if !ok {
			handles = make(map[uuid.UUID]*contract.Handle)
			r.byUser[h.User] = handles
		}
		handles[h.ID] = h
	}
	r.mu.Unlock()

	if !h.Anonymous() {
		r.notify()
	}
}

// Unregister removes the handle. If it was the user's last remaining handle
// the user transitions to offline. Safe to call on an unknown handle.
func (r *Registry) Unregister(h *contract.Handle) {
	r.mu.Lock()
	_, known := r.byID[h.ID]
	delete(r.byID, h.ID)
	if known && !h.Anonymous() {
		if handles, ok := r.byUser[h.User]; ok {
			delete(handles, h.ID)
			if len(handles) == 0 {
				delete(r.byUser, h.User)
			}
		}
	}
	r.mu.Unlock()

	if known && !h.Anonymous() {
		r.notify()
	}
}

// Lookup returns all live handles for a user, empty if offline.
func (r *Registry) Lookup(user domain.UserID) []*contract.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.byUser[user])
}

// OnlineUsers is the presence snapshot: every user owning at least one live
// handle. Always recomputed from the index, never cached, to avoid drift.
func (r *Registry) OnlineUsers() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.byUser)
}

// Handles snapshots every connected handle, anonymous ones included.
// Broadcast targets are resolved from this snapshot after the lock is gone.
func (r *Registry) Handles() []*contract.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.byID)
}

// Stats reports gauge values for the observability worker.
func (r *Registry) Stats() (users, connections int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser), len(r.byID)
}

func (r *Registry) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}
