package projects

import (
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/projects/create-project (auth)
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var body CreateInput
	if err := c.BodyParser(&body); err != nil || body.Title == "" {
		return response.Error(c, "Project title is required", 400, nil)
	}

	actor := actorID(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	p, err := h.Service.Create(c.Context(), body, actor)
	if err != nil {
		if err == ErrTitleRequired {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Project created successfully", p, nil)
}

// GET /api/v1/projects/view-project/:id (auth; members only)
func (h *Handlers) ViewProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project ID format (must be a valid UUID)", 400, nil)
	}

	actor := actorID(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.Service.IsMember(c.Context(), projectID, actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if !member {
		return response.Error(c, "User is Forbidden from performing this action", 403, nil)
	}

	p, err := h.Service.Get(c.Context(), projectID)
	if err != nil {
		if err == ErrProjectNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project fetched successfully", p, nil)
}

// GET /api/v1/projects/view-members/:id (auth; members only)
func (h *Handlers) ViewMembers(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project ID format (must be a valid UUID)", 400, nil)
	}

	actor := actorID(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.Service.IsMember(c.Context(), projectID, actor)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if !member {
		return response.Error(c, "User is Forbidden from performing this action", 403, nil)
	}

	members, err := h.Service.ListMembers(c.Context(), projectID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Members fetched successfully", members, nil)
}

func actorID(c *fiber.Ctx) uuid.UUID {
	u := middleware.GetUser(c)
	m, ok := u.(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	id, _ := m["user_id"].(string)
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
