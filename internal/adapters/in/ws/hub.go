package ws

import (
	"errors"
	"fmt"
	"sync"

	"tracking/internal/core/tracking"

	"go.uber.org/zap"
)

var (
	ErrUnknownConnection = errors.New("connection is not open")
	ErrSendBufferFull    = errors.New("send buffer is full")
)

var _ tracking.Sender = (*Hub)(nil)

// Hub owns the outbound queues of all open connections on this instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[tracking.ConnectionID]chan []byte
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[tracking.ConnectionID]chan []byte),
		logger:  logger.With(zap.String("component", "ws-hub")),
	}
}

// Send encodes ev as a frame and queues it for conn without blocking.
func (h *Hub) Send(conn tracking.ConnectionID, ev tracking.Event) error {
	frame, err := encode(ev.Type, ev.Data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Type, err)
	}
	return h.enqueue(conn, frame)
}

// Len reports the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(conn tracking.ConnectionID, buffer int) <-chan []byte {
	queue := make(chan []byte, buffer)

	h.mu.Lock()
	h.clients[conn] = queue
	h.mu.Unlock()

	h.logger.Debug("connection opened", zap.String("connection", string(conn)))
	return queue
}

// remove closes the queue, which stops the connection's writer.
func (h *Hub) remove(conn tracking.ConnectionID) {
	h.mu.Lock()
	queue, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		close(queue)
		h.logger.Debug("connection closed", zap.String("connection", string(conn)))
	}
}

// enqueue holds the read lock across the send so remove cannot close the
// queue underneath it.
func (h *Hub) enqueue(conn tracking.ConnectionID, frame []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	queue, ok := h.clients[conn]
	if !ok {
		return ErrUnknownConnection
	}
	select {
	case queue <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}
