package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed to a user's sessions.
const (
	eventInfo            = "info"
	eventAboutMeSaved    = "aboutme_saved"
	eventInvitationsSent = "invitations_sent"
)

// ServerEvent represents a server-sent event
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	email string
	conn  *websocket.Conn
	send  chan ServerEvent
}

// Hub fans events out to every open session of a user, keyed by email.
type Hub struct {
	clientsByUser map[string]map[*Client]bool
	mu            sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clientsByUser: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clientsByUser[c.email] == nil {
		h.clientsByUser[c.email] = make(map[*Client]bool)
	}
	h.clientsByUser[c.email][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.clientsByUser[c.email]; ok {
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.clientsByUser, c.email)
		}
	}
}

func (h *Hub) sendToUser(email string, evt ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clientsByUser[email] {
		select {
		case c.send <- evt:
		default:
			// Drop event if the session's buffer is full
		}
	}
}

// sessions reports how many sessions email has open.
func (h *Hub) sessions(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientsByUser[email])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsAboutMeHandler streams profile events to the authenticated user.
func wsAboutMeHandler(hub *Hub) http.HandlerFunc {
	return authenticateWith(socketToken, func(w http.ResponseWriter, r *http.Request) {
		p, _ := principalFrom(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("WS upgrade error", zap.String("email", p.Email), zap.Error(err))
			return
		}

		client := &Client{
			email: p.Email,
			conn:  conn,
			send:  make(chan ServerEvent, 16),
		}
		hub.register(client)

		// Announce connection to this client
		client.send <- ServerEvent{Type: eventInfo, Data: "connected"}

		go clientWriter(client)
		clientReader(hub, client)
	})
}

// clientReader only watches the connection; clients do not send events.
func clientReader(hub *Hub, c *Client) {
	defer func() {
		hub.unregister(c)
		close(c.send)
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func clientWriter(c *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			// ping to keep the connection alive
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
