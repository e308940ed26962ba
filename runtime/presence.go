package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

// Presence recomputes the online-user set after every registry change and
// pushes it to every connected handle, not just the one that changed: each
// client's sidebar must reflect global presence.
//
// There is no coalescing: one connect or disconnect means one broadcast.
// Under high churn this is O(connections) sends per change, a documented
// scaling limit, accepted in exchange for not reordering observable state.
type Presence struct {
	log      *slog.Logger
	registry contract.IRegistry
	timeout  time.Duration
}

func NewPresence(log *slog.Logger, registry contract.IRegistry, timeout time.Duration) *Presence {
	return &Presence{log: log, registry: registry, timeout: timeout}
}

// RegistryChanged is the hook installed on the registry. The snapshot is
// taken after the mutation committed, so the broadcast a caller observes
// always reflects its own change.
func (p *Presence) RegistryChanged() {
	online := p.registry.OnlineUsers()
	evt := event.PresenceUpdate{
		OnlineUserIDs: lo.Map(online, func(u domain.UserID, _ int) string { return string(u) }),
	}

	for _, h := range p.registry.Handles() {
		push(context.Background(), p.log, h, evt, p.timeout)
	}
}

// push attempts one bounded delivery. A slow or broken target is logged and
// skipped; it must never stall deliveries to the remaining targets, which is
// why the timeout context lives per target.
func push(ctx context.Context, log *slog.Logger, h *contract.Handle, e event.DomainEvent, timeout time.Duration) {
	pushCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := h.Sink.Consume(pushCtx, e); err != nil {
		log.Warn("Dropping event for unresponsive connection",
			"event", e.EventName(),
			"handle_id", h.ID,
			"user_id", h.User,
			"error", err)
	}
}
