// Package ws expone los tópicos del feed por WebSocket: al conectar llega el snapshot actual y
// después cada snapshot nuevo o evento del tópico.
package ws

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Handler puente entre el feed y las conexiones WebSocket.
type Handler struct {
	feed *realtime.Feed
	log  *logger.Logger
}

func NewHandler(feed *realtime.Feed, log *logger.Logger) *Handler {
	return &Handler{feed: feed, log: log.Named("ws")}
}

// RequireUpgrade rechaza requests que no son upgrade WebSocket (426) y tópicos desconocidos (404).
func (h *Handler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if !h.feed.HasTopic(c.Params("topic")) {
		return fiber.NewError(fiber.StatusNotFound, "tópico desconocido: "+c.Params("topic"))
	}
	return c.Next()
}

// Serve handler Fiber que atiende la conexión hasta que el cliente o el feed la cierran.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *Handler) serve(conn *websocket.Conn) {
	topic := conn.Params("topic")
	log := h.log.With().Str("topic", topic).Str("remote", conn.RemoteAddr().String()).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := h.feed.Subscribe(ctx, topic)
	if err != nil {
		log.Warn().Err(err).Msg("suscripción rechazada")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "feed no disponible"),
			time.Now().Add(writeWait))
		return
	}
	defer sub.Unsubscribe()
	log.Debug().Msg("cliente conectado")

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, sub, done)
	log.Debug().Msg("cliente desconectado")
}

// readPump solo procesa control frames (pong/close); los mensajes del cliente se ignoran.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *realtime.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// feed detenido
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
