package server

import (
	"inkshelf/internal/middleware"
	"inkshelf/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// upgradeRequired rejects plain HTTP requests on the websocket route.
func (s *Server) upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationsWebSocket streams moderation events (strikes, bans, report
// outcomes) to the connected user. The socket is receive-only; inbound
// frames are drained and ignored.
// @Summary Notification stream
// @Tags notifications
// @Param token query string false "Bearer token when headers cannot be set"
// @Success 101
// @Failure 426 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ws [get]
func (s *Server) NotificationsWebSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok {
			middleware.Logger.Warn("websocket: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket: register failed", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		middleware.Logger.Debug("websocket: user connected", "user_id", userID)

		if s.notifier == nil {
			// No pub/sub on this instance; say so once so clients can fall back to polling.
			ev := notifications.NewEvent("notifications_unavailable", nil)
			if payload, err := ev.Encode(); err == nil {
				client.TrySend([]byte(payload))
			}
		}

		go client.WritePump()
		client.ReadPump()
		middleware.Logger.Debug("websocket: user disconnected", "user_id", userID)
	})
}
