package notifications

import (
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/notifications/view-notifications (auth)
func (h *Handlers) ViewNotifications(c *fiber.Ctx) error {
	u := middleware.GetUser(c)
	m, ok := u.(map[string]interface{})
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, _ := m["user_id"].(string)
	userID, err := uuid.Parse(id)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	out, err := h.Service.ListForUser(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notifications fetched successfully", out, nil)
}
