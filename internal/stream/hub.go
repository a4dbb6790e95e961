// Package stream fans odds updates out to websocket subscribers, one topic per market.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be less than pongWait
	maxMessageSize = 512
	sendBufferSize = 32
	broadcastSize  = 256
)

// ErrHubStopped is returned by ServeWS once Run has returned.
var ErrHubStopped = errors.New("stream: hub stopped")

// MarketTopic is the topic odds updates for a market are published on.
func MarketTopic(marketID string) string {
	return "market:" + marketID
}

type message struct {
	topic string
	data  []byte
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

// Hub tracks connected clients by topic and broadcasts published payloads to them.
type Hub struct {
	upgrader   websocket.Upgrader
	log        logger.Logger
	register   chan *client
	unregister chan *client
	broadcast  chan message
	done       chan struct{}

	mu     sync.RWMutex
	topics map[string]map[*client]struct{}
}

// NewHub returns a hub; call Run to start delivering messages.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:        log,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan message, broadcastSize),
		done:       make(chan struct{}),
		topics:     make(map[string]map[*client]struct{}),
	}
}

// Run delivers messages until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for topic, clients := range h.topics {
				for c := range clients {
					close(c.send)
				}
				delete(h.topics, topic)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.topics[c.topic] == nil {
				h.topics[c.topic] = make(map[*client]struct{})
			}
			h.topics[c.topic][c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("stream client connected", logger.Fields{"topic": c.topic})

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.topics[msg.topic] {
				select {
				case c.send <- msg.data:
				default:
					h.log.Warn("stream dropping message for slow client", logger.Fields{"topic": msg.topic})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.topics[c.topic]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.topics, c.topic)
	}
	h.log.Debug("stream client disconnected", logger.Fields{"topic": c.topic})
}

// Publish queues payload for every subscriber of topic. It never blocks:
// when the hub is saturated the message is dropped and false is returned.
func (h *Hub) Publish(topic string, payload []byte) bool {
	select {
	case h.broadcast <- message{topic: topic, data: payload}:
		return true
	default:
		h.log.Warn("stream broadcast queue full", logger.Fields{"topic": topic})
		return false
	}
}

// PublishJSON encodes v and publishes it on topic.
func (h *Hub) PublishJSON(topic string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Publish(topic, data)
	return nil
}

// Subscribers returns the number of clients on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// ServeWS upgrades the request and subscribes the connection to topic.
// initial, when non-empty, is sent before any published message.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, topic string, initial []byte) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:   h,
		conn:  conn,
		topic: topic,
		send:  make(chan []byte, sendBufferSize),
	}
	if len(initial) > 0 {
		c.send <- initial
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubStopped
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// readPump only exists to process control frames and notice disconnects;
// clients do not send data.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("stream unexpected close", logger.Fields{"topic": c.topic, "error": err.Error()})
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
