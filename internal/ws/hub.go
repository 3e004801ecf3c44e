// Package ws pushes entity change notifications to connected admin consoles
// over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// maxClients caps concurrent console connections.
const maxClients = 200

// Hub manages active WebSocket clients and broadcasts change events.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	shutdown   chan struct{} // signals Run to begin graceful drain
	done       chan struct{} // closed when Run has finished draining
	count      atomic.Int64
	log        *logrus.Logger
	seq        *EventSequence
	buffer     *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		broadcast:  make(chan []byte, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
		seq:        &EventSequence{},
		buffer:     NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()
			return
		case <-h.shutdown:
			h.drainClients()
			return

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					client.closeSend()
					delete(h.clients, client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// PublishChange assigns a sequence ID, stores the event for replay, and
// broadcasts it to all connected clients. Satisfies service.ChangePublisher.
func (h *Hub) PublishChange(resource, action, id string) {
	evt := Event{
		Type:     "change",
		Seq:      h.seq.Next(),
		Resource: resource,
		Action:   action,
		ID:       id,
		Time:     time.Now().UTC(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(&evt)

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast channel full, dropping event")
	}
}

// ReplayEvents sends buffered events newer than lastSeq to the client.
// Returns false when the requested history is no longer available.
func (h *Hub) ReplayEvents(c *Client, lastSeq uint64) bool {
	events, ok := h.buffer.Since(lastSeq)
	if !ok {
		return false
	}

	for i := range events {
		msg, err := json.Marshal(&events[i])
		if err != nil {
			continue
		}
		select {
		case c.send <- msg:
		default:
			return true // client is backed up; the write pump will drop it
		}
	}

	return true
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown initiates a graceful drain: notifies every connected client,
// waits for write pumps to flush, then closes all connections.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// drainClients sends a shutdown message to every client and waits for
// buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			h.closeAll()
			return
		case <-ticker.C:
			allFlushed := true
			for client := range h.clients {
				if len(client.send) > 0 {
					allFlushed = false
					break
				}
			}
			if allFlushed {
				h.closeAll()
				return
			}
		}
	}
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}
