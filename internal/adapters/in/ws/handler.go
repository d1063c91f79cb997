// Package ws serves the live tracking endpoint. Each connection is
// authenticated once at upgrade time; afterwards it may watch orders, stop
// watching them and, for delivery partners, report positions.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tracking/internal/adapters/out/auth"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/identity"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/ports"
	"tracking/internal/core/tracking"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxFrameBytes  = 4 << 10
	defaultBacklog = 64
)

// Subscriptions tracks which connection watches which order.
type Subscriptions interface {
	Join(conn tracking.ConnectionID, orderID kernel.UUID)
	Leave(conn tracking.ConnectionID, orderID kernel.UUID)
	OnDisconnect(conn tracking.ConnectionID) []kernel.UUID
}

// OrderReader enforces that only participants may watch an order.
type OrderReader interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
}

// LocationReporter accepts location-update frames.
type LocationReporter interface {
	ReportLocation(
		ctx context.Context,
		partner identity.DeliveryPartner,
		orderID kernel.UUID,
		latitude, longitude float64,
	) (commands.RecordLocationResult, error)
}

// Config tunes the WebSocket endpoint.
type Config struct {
	// SendBuffer is the number of frames queued per connection before new
	// ones are dropped.
	SendBuffer int
	// AllowedOrigin restricts the Origin header; empty or "*" accepts any.
	AllowedOrigin string
}

// Handler serves GET /ws. Each connection gets its own reader and writer goroutine.
type Handler struct {
	hub           *Hub
	subscriptions Subscriptions
	orders        OrderReader
	reporter      LocationReporter
	verifier      ports.TokenVerifier
	upgrader      websocket.Upgrader
	sendBuffer    int
	logger        *zap.Logger
}

// NewHandler creates the endpoint. A non-positive SendBuffer falls back to the default backlog.
func NewHandler(
	hub *Hub,
	subscriptions Subscriptions,
	orders OrderReader,
	reporter LocationReporter,
	verifier ports.TokenVerifier,
	cfg Config,
	logger *zap.Logger,
) *Handler {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultBacklog
	}
	return &Handler{
		hub:           hub,
		subscriptions: subscriptions,
		orders:        orders,
		reporter:      reporter,
		verifier:      verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.AllowedOrigin),
		},
		sendBuffer: cfg.SendBuffer,
		logger:     logger.With(zap.String("component", "ws")),
	}
}

// ServeHTTP authenticates, upgrades and serves one connection until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, err := h.verifier.Verify(tokenFrom(r))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write(encodeError(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:        tracking.ConnectionID(uuid.NewString()),
		principal: principal,
		conn:      conn,
		handler:   h,
	}
	c.logger = h.logger.With(
		zap.String("connection", string(c.id)),
		zap.String("user", principal.UserID().String()),
		zap.String("role", principal.Role().String()),
	)

	queue := h.hub.add(c.id, h.sendBuffer)
	written := make(chan struct{})
	go func() {
		defer close(written)
		c.writePump(queue)
	}()

	c.logger.Info("tracking connection opened")
	c.readPump(r.Context())

	watched := h.subscriptions.OnDisconnect(c.id)
	h.hub.remove(c.id)
	<-written
	_ = conn.Close()
	c.logger.Info("tracking connection closed", zap.Int("watched", len(watched)))
}

// tokenFrom prefers the query parameter because browsers cannot set headers
// on a WebSocket handshake.
func tokenFrom(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	token, _ := auth.BearerToken(r.Header.Get("Authorization"))
	return token
}

func checkOrigin(allowed string) func(r *http.Request) bool {
	if allowed == "" || allowed == "*" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

type client struct {
	id        tracking.ConnectionID
	principal identity.Principal
	conn      *websocket.Conn
	handler   *Handler
	logger    *zap.Logger
}

func (c *client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("connection closed unexpectedly", zap.Error(err))
			}
			return
		}

		var msg envelope
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.replyError(errMalformedFrame(err))
			continue
		}
		c.dispatch(ctx, msg)
	}
}

// writePump is the only writer on the connection. It returns when the hub
// closes the queue or a write fails.
func (c *client) writePump(queue <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-queue:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("write failed", zap.Error(err))
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("ping failed", zap.Error(err))
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (c *client) reply(typ string, data any) {
	frame, err := encode(typ, data)
	if err != nil {
		c.logger.Error("encode reply", zap.String("type", typ), zap.Error(err))
		return
	}
	c.enqueue(frame)
}

func (c *client) replyError(err error) {
	c.enqueue(encodeError(err))
}

func (c *client) enqueue(frame []byte) {
	if err := c.handler.hub.enqueue(c.id, frame); err != nil {
		c.logger.Warn("reply dropped", zap.Error(err))
	}
}
