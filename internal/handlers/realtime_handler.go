package handlers

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/trainsapp/trains-backend/internal/dto"
	"github.com/trainsapp/trains-backend/internal/realtime"
	"github.com/trainsapp/trains-backend/internal/services"
)

// RealtimeHandler upgrades clients onto the change-event stream. The channel
// is read-mostly from the client's point of view: after the handshake the
// server only pushes change events, so the read loop exists purely to detect
// disconnects.
type RealtimeHandler struct {
	hub    *realtime.Hub
	issuer *services.TokenIssuer
}

func NewRealtimeHandler(hub *realtime.Hub, issuer *services.TokenIssuer) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, issuer: issuer}
}

// Upgrade gates the WebSocket handshake. A token is optional; a supplied one
// must verify.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	if token := connectToken(c); token != "" {
		if _, err := h.issuer.ParseAccessToken(token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}
	}
	return c.Next()
}

func (h *RealtimeHandler) Serve(conn *websocket.Conn) {
	id := h.hub.Add(conn)
	defer func() {
		h.hub.Remove(id)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func connectToken(c *fiber.Ctx) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
