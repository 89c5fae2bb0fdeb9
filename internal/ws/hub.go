package ws

import (
	"encoding/json"
	"sync"

	"go-color-catalog/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// Hub fans catalog events out to every connected client.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex

	// Published messages wait here, in publish order, for the pump.
	queue    [][]byte
	queueMu  sync.Mutex
	wake     chan struct{}
	pumpOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		done:       make(chan struct{}),
		wake:       make(chan struct{}, 1),
	}
}

// Run owns the client set until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Debug().Msg("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop ends Run and closes all clients. It must be called at most once.
func (h *Hub) Stop() {
	close(h.done)
}

// Join registers conn unless the hub has stopped.
func (h *Hub) Join(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters conn. It is a no-op once the hub has stopped.
func (h *Hub) Leave(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish encodes payload as JSON and queues it for Run without blocking the
// caller. Messages reach Broadcast in the order they were published.
func (h *Hub) Publish(payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.Error().Err(err).Msg("encode ws event")
		return
	}

	h.queueMu.Lock()
	h.queue = append(h.queue, msg)
	h.queueMu.Unlock()

	h.pumpOnce.Do(func() { go h.pump() })
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// pump is the single sender on Broadcast for published messages.
func (h *Hub) pump() {
	for {
		select {
		case <-h.wake:
		case <-h.done:
			return
		}

		for {
			h.queueMu.Lock()
			if len(h.queue) == 0 {
				h.queueMu.Unlock()
				break
			}
			msg := h.queue[0]
			h.queue = h.queue[1:]
			h.queueMu.Unlock()

			select {
			case h.Broadcast <- msg:
			case <-h.done:
				return
			}
		}
	}
}
