package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"squitterator/internal/aircraft"
)

// Event types sent to websocket clients
const (
	EventSnapshot = "snapshot"
	EventUpdate   = "update"
	EventRemove   = "remove"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Event is one websocket message
type Event struct {
	Type     string             `json:"type"`
	Aircraft []aircraft.Summary `json:"aircraft,omitempty"`
	ICAO     string             `json:"icao,omitempty"`
}

// Hub fans aircraft events out to websocket clients
type Hub struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex // each connection has its own write mutex
}

// NewHub creates a hub with no clients
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request, sends the snapshot and keeps the connection
// until the client goes away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, snapshot []aircraft.Summary) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	// hold the write mutex until the snapshot is out so updates follow it
	writeMu := &sync.Mutex{}
	writeMu.Lock()
	h.clientsMu.Lock()
	h.clients[conn] = writeMu
	count := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.WithFields(logrus.Fields{
		"remote":  r.RemoteAddr,
		"clients": count,
	}).Info("WebSocket client connected")

	err = h.sendLocked(conn, Event{Type: EventSnapshot, Aircraft: snapshot})
	writeMu.Unlock()
	if err != nil {
		h.drop(conn)
		return
	}

	h.handleClient(conn, writeMu)
}

func (h *Hub) handleClient(conn *websocket.Conn, writeMu *sync.Mutex) {
	defer h.drop(conn)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	// clients only send control frames; reads keep the pong handler running
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("WebSocket read error")
			}
			return
		}
	}
}

// Update sends one aircraft to every client
func (h *Hub) Update(s aircraft.Summary) {
	h.broadcast(Event{Type: EventUpdate, Aircraft: []aircraft.Summary{s}})
}

// Remove tells clients an aircraft was evicted
func (h *Hub) Remove(icao string) {
	h.broadcast(Event{Type: EventRemove, ICAO: icao})
}

func (h *Hub) broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal event")
		return
	}

	// copy the client list so slow writes do not hold clientsMu
	h.clientsMu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, conn)
		mutexes = append(mutexes, mu)
	}
	h.clientsMu.RUnlock()

	for i, conn := range conns {
		if err := h.write(conn, mutexes[i], data); err != nil {
			h.logger.WithError(err).Debug("Failed to send to WebSocket client")
			h.drop(conn)
		}
	}
}

func (h *Hub) sendLocked(conn *websocket.Conn, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return writeLocked(conn, data)
}

func (h *Hub) write(conn *websocket.Conn, writeMu *sync.Mutex, data []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	return writeLocked(conn, data)
}

func writeLocked(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.clientsMu.Lock()
	_, exists := h.clients[conn]
	delete(h.clients, conn)
	remaining := len(h.clients)
	h.clientsMu.Unlock()

	if exists {
		conn.Close()
		h.logger.WithField("clients", remaining).Info("WebSocket client disconnected")
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.clientsMu.Lock()
	conns := h.clients
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
	h.clientsMu.Unlock()

	for conn, mu := range conns {
		mu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		mu.Unlock()
		conn.Close()
	}
}
