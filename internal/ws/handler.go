package ws

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	hub    *Hub
	logger *log.Logger
}

func NewHandler(hub *Hub, logger *log.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Subscribe upgrades the request and subscribes the connection to topic.
// The caller resolves topic and rejects unknown sessions before upgrading.
// The connection stays open until both pumps have returned.
func (h *Handler) Subscribe(c *fiber.Ctx, topic string) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient(h.hub, conn, topic)
		h.hub.Register(client)
		done := make(chan struct{})
		go func() {
			client.WritePump()
			close(done)
		}()
		client.ReadPump()
		<-done
	})(c)
}
