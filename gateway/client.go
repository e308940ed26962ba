package gateway

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/contract"
	"chat-relay/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	maxSignalSize = 512
)

// signal is a client-to-server control frame. The live data path is
// one-directional: clients post messages over HTTP and only steer their
// room subscriptions here.
type signal struct {
	Type    string         `json:"type"`
	GroupID domain.GroupID `json:"groupId"`
}

const (
	signalJoinGroup  = "joinGroup"
	signalLeaveGroup = "leaveGroup"
)

// joinRejected is a transport-scoped ack delivered only to the issuing
// connection. It never travels through the router.
type joinRejected struct {
	GroupID domain.GroupID `json:"groupId"`
	Reason  string         `json:"reason"`
}

func (joinRejected) EventName() string { return "joinRejected" }

// client binds one WebSocket connection to its session handle and sink.
type client struct {
	log    *slog.Logger
	conn   *websocket.Conn
	handle *contract.Handle
	sink   *ChannelSink
}

// readPump consumes control frames until the connection dies. It owns the
// session teardown: returning triggers the deferred purge in ServeWS.
func (c *client) readPump(g *Gateway) {
	c.conn.SetReadLimit(maxSignalSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected connection close",
					"handle_id", c.handle.ID, "error", err)
			}
			return
		}

		var sig signal
		if err := json.Unmarshal(raw, &sig); err != nil {
			c.log.Warn("Malformed control frame",
				"handle_id", c.handle.ID, "error", err)
			continue
		}

		switch sig.Type {
		case signalJoinGroup:
			g.handleJoin(c, sig.GroupID)
		case signalLeaveGroup:
			g.handleLeave(c, sig.GroupID)
		default:
			c.log.Warn("Unknown control frame type",
				"handle_id", c.handle.ID, "type", sig.Type)
		}
	}
}

// writePump drains the sink onto the wire and keeps the connection alive
// with pings. It exits when the sink closes or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case encoded := <-c.sink.Frames():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, encoded); err != nil {
				return
			}
		case <-c.sink.Closed():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
