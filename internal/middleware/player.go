package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const playerIDKey = "playerID"

// EnsurePlayerID reads the caller's identity from the X-Player-ID header or
// the playerId query parameter.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			log.Debugf("rejecting %s %s without a player ID", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(playerIDKey, playerID)
		return c.Next()
	}
}

// PlayerID is the identity EnsurePlayerID stored, or empty.
func PlayerID(c *fiber.Ctx) string {
	playerID, _ := c.Locals(playerIDKey).(string)
	return playerID
}
