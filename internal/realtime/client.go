// Package realtime consumes the backend's socket channel and fans events out
// to scoped subscriptions. Connection lifecycle guarantees (re-delivery,
// reconnect policy) belong to the backend transport; this package only
// preserves per-connection arrival order.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"deliveryPortal/models"
)

// JoinInfo identifies the session to the socket server so it can scope the
// events it pushes.
type JoinInfo struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
}

// wireMessage is the envelope the socket server uses for every frame.
type wireMessage struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// Client is a live connection to the socket channel. Events it reads are
// published on its Hub until the connection drops or Close is called.
type Client struct {
	conn *websocket.Conn
	hub  *Hub

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the socket endpoint, announces the session with a join
// frame and starts reading. The returned client owns the hub; Close releases
// both.
func Dial(ctx context.Context, socketURL string, join JoinInfo) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial socket %s: %w", socketURL, err)
	}

	joinFrame := struct {
		Event string   `json:"event"`
		Data  JoinInfo `json:"data"`
	}{Event: "join", Data: join}
	if err := conn.WriteJSON(joinFrame); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send join: %w", err)
	}

	c := &Client{
		conn: conn,
		hub:  NewHub(),
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Hub returns the hub fed by this connection.
func (c *Client) Hub() *Hub {
	return c.hub
}

func (c *Client) readLoop() {
	defer c.hub.Close()
	defer close(c.done)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("realtime: read: %v", err)
			}
			return
		}
		var msg wireMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("realtime: bad frame: %v", err)
			continue
		}
		if msg.Event == "" {
			continue
		}
		c.hub.Publish(Event{
			Name:       msg.Event,
			Data:       msg.Data,
			ReceivedAt: time.Now(),
		})
	}
}

// Close shuts the connection down and releases every subscription.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = c.conn.Close()
		<-c.done
	})
	return err
}
