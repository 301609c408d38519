package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// client represents one connected socket session. Its only state is the
// connection and the buffered send channel drained by writePump.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	addr string
}

// inbound is the one recognized client message shape. Anything without a
// known type is ignored.
type inbound struct {
	Type string `json:"type"`
}

// readPump reads frames until the connection closes, dispatching recognized
// messages. Malformed JSON is logged and dropped; it must not kill the
// session.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.handleMessage(raw)
	}
}

func (c *client) handleMessage(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.hub.log.WithField("addr", c.addr).WithError(err).Warn("discarding malformed socket message")
		return
	}

	switch msg.Type {
	case "get_users":
		c.replyUsersList()
	default:
		c.hub.log.WithField("addr", c.addr).WithField("type", msg.Type).Debug("unhandled socket message type")
	}
}

// replyUsersList runs the aggregate query and replies to this session only.
// A query error is answered with an error envelope; the connection stays
// open either way.
func (c *client) replyUsersList() {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	users, err := c.hub.listUsers(ctx)
	var evt Event
	if err != nil {
		c.hub.log.WithField("addr", c.addr).WithError(err).Error("get_users query failed")
		evt = ErrorEvent(err)
	} else {
		evt = UsersListEvent(users)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		c.hub.log.WithError(err).Error("marshal users_list reply")
		return
	}
	c.hub.sendTo(c, data)
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with periodic pings. Runs in its own goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub shutdown or client removed).
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
