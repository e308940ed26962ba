package runtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
)

const testDeliveryTimeout = 50 * time.Millisecond

// recordingSink collects everything pushed to it, like a healthy client.
type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Events() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

// stuckSink simulates an unresponsive transport: it blocks until the
// per-target delivery context expires.
type stuckSink struct{}

func (stuckSink) Consume(ctx context.Context, _ event.DomainEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

func recordedHandle(user domain.UserID) (*contract.Handle, *recordingSink) {
	sink := &recordingSink{}
	return &contract.Handle{ID: uuid.New(), User: user, Sink: sink}, sink
}

func directMessage(sender, recipient domain.UserID) domain.Message {
	return domain.Message{
		ID:          uuid.New(),
		SenderID:    sender,
		RecipientID: recipient,
		Text:        "hello",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestRouter_Direct_Message_Reaches_Recipient_And_Sender_Echo(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	rooms := NewRoomTracker()
	router := NewRouter(slog.Default(), registry, rooms, testDeliveryTimeout)

	// Given user A on two devices and user B on one
	a1, a1Sink := recordedHandle("A")
	a2, a2Sink := recordedHandle("A")
	b1, b1Sink := recordedHandle("B")
	registry.Register(a1)
	registry.Register(a2)
	registry.Register(b1)

	// When A sends a direct message to B
	msg := directMessage("A", "B")
	router.Route(context.Background(), msg)

	// Then B receives it, and both of A's sessions receive the echo,
	// the originating one included
	for _, sink := range []*recordingSink{a1Sink, a2Sink, b1Sink} {
		events := sink.Events()
		req.Len(events, 1)
		req.Equal(event.NewMessage{Message: msg}, events[0])
	}
}

func TestRouter_Direct_Message_To_Offline_Recipient_Still_Echoes(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, NewRoomTracker(), testDeliveryTimeout)

	a1, a1Sink := recordedHandle("A")
	registry.Register(a1)

	// When A messages an offline user
	router.Route(context.Background(), directMessage("A", "B"))

	// Then only the sender echo is delivered
	req.Len(a1Sink.Events(), 1)
}

func TestRouter_Self_Message_Is_Delivered_Once_Per_Handle(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, NewRoomTracker(), testDeliveryTimeout)

	a1, a1Sink := recordedHandle("A")
	a2, a2Sink := recordedHandle("A")
	registry.Register(a1)
	registry.Register(a2)

	// When A messages A, sender and recipient lookups overlap entirely
	router.Route(context.Background(), directMessage("A", "A"))

	// Then each session still receives exactly one copy
	req.Len(a1Sink.Events(), 1)
	req.Len(a2Sink.Events(), 1)
}

func TestRouter_Group_Message_Reaches_Live_Subscribers_Only(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	rooms := NewRoomTracker()
	router := NewRouter(slog.Default(), registry, rooms, testDeliveryTimeout)
	room := domain.GroupID("g1")

	// Given durable members A, B, C, of which only A and B joined the feed
	a1, a1Sink := recordedHandle("A")
	b1, b1Sink := recordedHandle("B")
	c1, c1Sink := recordedHandle("C")
	registry.Register(a1)
	registry.Register(b1)
	registry.Register(c1)
	rooms.Join(room, a1)
	rooms.Join(room, b1)

	// When a message is routed to the group
	msg := domain.Message{
		ID:        uuid.New(),
		SenderID:  "A",
		GroupID:   room,
		Text:      "hello group",
		CreatedAt: time.Now().UTC(),
	}
	router.Route(context.Background(), msg)

	// Then the joined handles receive it and C receives nothing,
	// durable membership notwithstanding
	req.Len(a1Sink.Events(), 1)
	req.Len(b1Sink.Events(), 1)
	req.Empty(c1Sink.Events())
}

func TestRouter_Failing_Target_Does_Not_Block_The_Rest(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	router := NewRouter(slog.Default(), registry, NewRoomTracker(), testDeliveryTimeout)

	// Given a recipient with one dead session and one healthy one
	stuck := &contract.Handle{ID: uuid.New(), User: "B", Sink: stuckSink{}}
	b2, b2Sink := recordedHandle("B")
	registry.Register(stuck)
	registry.Register(b2)

	// When a message is routed
	start := time.Now()
	router.Route(context.Background(), directMessage("A", "B"))

	// Then the healthy session was served, and the dead one only cost the
	// per-target delivery timeout
	req.Len(b2Sink.Events(), 1)
	req.Less(time.Since(start), 10*testDeliveryTimeout)
}
