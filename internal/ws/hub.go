package ws

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Client serializes writes to one connection; the connection's read loop
// and the hub may both send to it.
type Client struct {
	player string
	conn   Conn
	closed bool
	mu     sync.Mutex
}

var ErrClientClosed = errors.New("client unregistered")

func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return c.conn.WriteJSON(msg)
}

// Hub tracks every open connection by player.
type Hub struct {
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(player string, conn Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	client := &Client{player: player, conn: conn}
	if h.clients[player] == nil {
		h.clients[player] = make(map[*Client]struct{})
	}
	h.clients[player][client] = struct{}{}
	log.Debugf("registered connection for player %s", player)
	return client
}

// Unregister detaches client; later sends to it fail with ErrClientClosed.
func (h *Hub) Unregister(client *Client) {
	client.mu.Lock()
	client.closed = true
	client.mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[client.player]
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.player)
	}
	log.Debugf("unregistered connection for player %s", client.player)
}

// connections counts the open connections of player.
func (h *Hub) connections(player string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[player])
}

// Notify sends msg to every connection player has open. A player with no
// connection misses the message.
func (h *Hub) Notify(player string, msg Message) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[player]))
	for client := range h.clients[player] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.Send(msg); err != nil {
			log.Warnf("notify %s: %v", player, err)
		}
	}
}
