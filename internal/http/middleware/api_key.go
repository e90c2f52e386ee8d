package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// APIKeyHeader carries the pre-shared management key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match the
// configured secret. The response never says whether the key was absent or
// merely wrong.
func APIKeyAuth(key string, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		provided := c.Get(APIKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			logger.Warn("rejected management request",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
				zap.Bool("key_present", provided != ""))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}
