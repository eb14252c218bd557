package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid
// WebSocket connection attempts for a known game. Run it after RequireGame.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Locals set on the upgrade request survive into the connection,
		// which has no access to the route params of its own.
		c.Locals("wsGameID", c.Locals("gameID"))
		return c.Next()
	}
}
