package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/fairwayfive/golf-pool/services"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket subscriber watching a tournament's leaderboard.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	room     int
	closed   bool
	closedMu sync.Mutex
}

// Message is the envelope pushed to subscribers.
type Message struct {
	Type         string      `json:"type"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload"`
}

// Hub fans committed leaderboards out to websocket subscribers, one room per
// tournament. It implements services.LeaderboardBroadcaster.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[int]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[int]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes subscriber lifecycle events. Call once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()
			h.logger.Debug("leaderboard subscriber joined", slog.Int("tournament_id", client.room))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok && clients[client] {
				client.markClosed()
				delete(clients, client)
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("leaderboard subscriber left", slog.Int("tournament_id", client.room))
		}
	}
}

// BroadcastLeaderboard pushes a committed leaderboard to every subscriber of
// the tournament. Slow subscribers are skipped, never waited on.
func (h *Hub) BroadcastLeaderboard(tournamentID int, board *services.PoolLeaderboard) {
	payload, err := json.Marshal(Message{
		Type:         "LEADERBOARD_UPDATED",
		TournamentID: tournamentID,
		Payload:      board,
	})
	if err != nil {
		h.logger.Error("leaderboard marshal failed", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[tournamentID] {
		client.closedMu.Lock()
		if !client.closed {
			select {
			case client.send <- payload:
			default:
			}
		}
		client.closedMu.Unlock()
	}
}

// Subscribe attaches an upgraded connection to a tournament room and starts
// its pumps.
func (h *Hub) Subscribe(conn *websocket.Conn, tournamentID int) {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 8),
		room: tournamentID,
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

func (c *Client) markClosed() {
	c.closedMu.Lock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
	c.closedMu.Unlock()
}

// readPump drains and discards inbound frames; the feed is one-way. It keeps
// the connection alive via pong deadlines and unregisters on error.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
