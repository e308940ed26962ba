//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"chat-relay/domain"
	"chat-relay/domain/event"
)

// EventSink is one live client's inbox. Consume must respect ctx: a slow or
// dead consumer is reported through the returned error, never by blocking
// the caller past its deadline.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Handle represents one live transport session. It is bound to exactly one
// user for its entire lifetime; User stays empty for connections that were
// accepted without a resolvable identity (they receive broadcasts but
// contribute nothing to presence).
type Handle struct {
	ID   uuid.UUID
	User domain.UserID
	Sink EventSink
}

// Anonymous reports whether the handle carries no presence entry.
func (h *Handle) Anonymous() bool { return h.User == "" }

// IRegistry is the single source of truth for who is online. A user owns
// zero or more handles (multi-device); presence is derived from the keyset,
// never stored independently.
type IRegistry interface {
	Register(h *Handle)
	Unregister(h *Handle)
	Lookup(user domain.UserID) []*Handle
	OnlineUsers() []domain.UserID
	Handles() []*Handle
}

// IRoomTracker maps a group to the set of handles that actively joined its
// live feed. Distinct from durable membership, and entirely transient.
type IRoomTracker interface {
	Join(room domain.GroupID, h *Handle)
	Leave(room domain.GroupID, h *Handle)
	Purge(h *Handle)
	Subscribers(room domain.GroupID) []*Handle
}

// IRouter fans a persisted message out to its resolved targets. Route
// returns once every push has been attempted; per-target failures are
// isolated and never surfaced to the caller.
type IRouter interface {
	Route(ctx context.Context, msg domain.Message)
}

type WorkerName string

// Worker doesn't protect itself; the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
