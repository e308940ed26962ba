package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Router resolves the target set for a persisted message and pushes it to
// each target. It is invoked only after the durable store accepted the
// message: nothing is ever fanned out that was not first committed.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	rooms    contract.IRoomTracker
	timeout  time.Duration
}

func NewRouter(log *slog.Logger, registry contract.IRegistry,
	rooms contract.IRoomTracker, timeout time.Duration) *Router {
	return &Router{log: log, registry: registry, rooms: rooms, timeout: timeout}
}

// Route delivers the message to its resolved targets and returns once every
// push has been attempted. Group messages go to the room's current live
// subscribers. Direct messages go to all of the recipient's handles plus
// all of the sender's handles: the sender's other tabs and devices see the
// echo without relying on the HTTP response alone. The originating session
// is deliberately not excluded.
func (r *Router) Route(ctx context.Context, msg domain.Message) {
	var targets []*contract.Handle
	if msg.IsGroup() {
		targets = r.rooms.Subscribers(msg.GroupID)
	} else {
		targets = dedupe(append(
			r.registry.Lookup(msg.RecipientID),
			r.registry.Lookup(msg.SenderID)...))
	}

	evt := event.NewMessage{Message: msg}
	for _, h := range targets {
		push(ctx, r.log, h, evt, r.timeout)
	}

	r.log.Debug("Message fanned out",
		"message_id", msg.ID,
		"group", msg.IsGroup(),
		"targets", len(targets))
}

// dedupe collapses handles that appear in both sender and recipient lookups
// (self-messaging) so no session receives the event twice.
func dedupe(handles []*contract.Handle) []*contract.Handle {
	seen := make(map[uuid.UUID]struct{}, len(handles))
	out := handles[:0]
	for _, h := range handles {
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, h)
	}
	return out
}
