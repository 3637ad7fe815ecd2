package health

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for the health endpoint.
type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// Status GET /api/v1/health — dependency pings plus runtime info.
func (h *Handlers) Status(c *fiber.Ctx) error {
	result := Check(context.Background(), h.Rdb, h.DB)
	return c.JSON(map[string]interface{}{
		"service":      "huddle-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"dependencies": result.Dependencies,
	})
}
