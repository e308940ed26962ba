package gateway

import (
	"context"
	"encoding/json"
	"sync"

	"chat-relay/domain/event"
	"chat-relay/errors"
)

// frame is the wire envelope for every server-to-client event. Clients
// dispatch on the event name.
type frame struct {
	Event string            `json:"event"`
	Data  event.DomainEvent `json:"data"`
}

func encodeFrame(e event.DomainEvent) ([]byte, error) {
	return json.Marshal(frame{Event: e.EventName(), Data: e})
}

// ChannelSink adapts one WebSocket connection's outbound queue to the
// event consumer contract. Consume never blocks past its context: a full
// queue on a slow client surfaces as an error to the pushing side while
// the write pump drains at the connection's own pace.
type ChannelSink struct {
	frames    chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func NewChannelSink(capacity int) *ChannelSink {
	return &ChannelSink{
		frames: make(chan []byte, capacity),
		closed: make(chan struct{}),
	}
}

func (s *ChannelSink) Consume(ctx context.Context, e event.DomainEvent) error {
	encoded, err := encodeFrame(e)
	if err != nil {
		return err
	}

	select {
	case s.frames <- encoded:
		return nil
	case <-s.closed:
		return errors.ErrSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames is the write pump's read side.
func (s *ChannelSink) Frames() <-chan []byte {
	return s.frames
}

// Close releases any pusher currently blocked in Consume. Idempotent.
func (s *ChannelSink) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Closed reports the sink's terminal state to the write pump.
func (s *ChannelSink) Closed() <-chan struct{} {
	return s.closed
}
