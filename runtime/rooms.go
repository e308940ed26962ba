package runtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
)

// RoomTracker maps a group to the handles that actively joined its live
// feed. Durable membership (who *may* belong) lives in the group store;
// this set is always a subset of it and is lost on restart.
//
// A reverse index (handle -> joined rooms) keeps Purge proportional to the
// rooms that handle actually joined, not to the total number of rooms.
type RoomTracker struct {
	mu      sync.RWMutex
	members map[domain.GroupID]map[uuid.UUID]*contract.Handle
	joined  map[uuid.UUID]map[domain.GroupID]struct{}
}

func NewRoomTracker() *RoomTracker {
	return &RoomTracker{
		members: make(map[domain.GroupID]map[uuid.UUID]*contract.Handle),
		joined:  make(map[uuid.UUID]map[domain.GroupID]struct{}),
	}
}

// Join subscribes the handle to the room feed. Idempotent. Durable
// membership is the caller's responsibility, checked before the join signal
// is accepted.
func (t *RoomTracker) Join(room domain.GroupID, h *contract.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	handles, ok := t.members[room]
	if !ok {
		handles = make(map[uuid.UUID]*contract.Handle)
		t.members[room] = handles
	}
	handles[h.ID] = h

	rooms, ok := t.joined[h.ID]
	if !ok {
		rooms = make(map[domain.GroupID]struct{})
		t.joined[h.ID] = rooms
	}
	rooms[room] = struct{}{}
}

// Leave removes the handle from the room. No-op if absent. Empty room and
// reverse-index entries are removed so the maps don't grow forever.
func (t *RoomTracker) Leave(room domain.GroupID, h *contract.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.leaveLocked(room, h.ID)
}

// Purge removes the handle from every room it joined. Called on connection
// teardown; this is what guarantees no dangling subscriber survives a
// disconnect.
func (t *RoomTracker) Purge(h *contract.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for room := range t.joined[h.ID] {
		t.leaveLocked(room, h.ID)
	}
}

// Subscribers snapshots the current live subscriber set for fan-out.
func (t *RoomTracker) Subscribers(room domain.GroupID) []*contract.Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Values(t.members[room])
}

// Rooms reports the number of rooms with at least one live subscriber.
func (t *RoomTracker) Rooms() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.members)
}

func (t *RoomTracker) leaveLocked(room domain.GroupID, id uuid.UUID) {
	if handles, ok := t.members[room]; ok {
		delete(handles, id)
		if len(handles) == 0 {
			delete(t.members, room)
		}
	}
	if rooms, ok := t.joined[id]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(t.joined, id)
		}
	}
}
