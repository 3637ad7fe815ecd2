package invitations

import (
	"huddle-backend/internal/accounts"
	"huddle-backend/internal/identity"
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"
	"huddle-backend/internal/projects"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
	Config  middleware.SessionConfig
}

// POST /api/v1/invitations/create-invite (auth; caller must own the project)
func (h *Handlers) CreateInvite(c *fiber.Ctx) error {
	var body struct {
		ProjectID string `json:"project_id"`
		Email     string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.ProjectID == "" || body.Email == "" {
		return response.Error(c, "project_id and email are required", 400, nil)
	}
	projectID, err := uuid.Parse(body.ProjectID)
	if err != nil {
		return response.Error(c, "Invalid project ID format (must be a valid UUID)", 400, nil)
	}

	actor := PrincipalFromSession(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	inv, err := h.Service.Create(c.Context(), CreateInput{
		ProjectID: projectID,
		Actor:     *actor,
		Email:     body.Email,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Invitation sent successfully", inv, nil)
}

// GET /api/v1/invitations/view-invites?project_id= (auth; owner only)
func (h *Handlers) ViewInvites(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		return response.Error(c, "project_id query parameter is required", 400, nil)
	}

	actor := PrincipalFromSession(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	invs, err := h.Service.ListPending(c.Context(), projectID, *actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Invitations fetched successfully", invs, nil)
}

// POST /api/v1/invitations/public/invite-details (no auth)
func (h *Handlers) InviteDetails(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token required", 400, nil)
	}

	detail, err := h.Service.GetDetail(c.Context(), body.Token)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Invitation details fetched", detail, nil)
}

// POST /api/v1/invitations/public/accept-invite (no auth required; a session,
// when present, supplies the principal)
func (h *Handlers) AcceptInvite(c *fiber.Ctx) error {
	var body struct {
		Token    string `json:"token"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token required", 400, nil)
	}

	result, err := h.Service.Accept(c.Context(), AcceptInput{
		Token:     body.Token,
		Principal: PrincipalFromSession(c),
		Name:      body.Name,
		Password:  body.Password,
	})
	if err != nil {
		return serviceError(c, err)
	}

	if result.Outcome != OutcomeAccepted {
		return response.Success(c, "Further action required", result, nil)
	}

	// Establish (or refresh) the session for the account that just joined.
	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   result.Account.UserID.String(),
		Fullname: result.Account.Fullname,
		Email:    result.Account.Email,
	})
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.Success(c, "Invitation accepted successfully", result, nil)
}

// POST /api/v1/invitations/public/decline-invite (no auth)
func (h *Handlers) DeclineInvite(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token required", 400, nil)
	}

	inv, err := h.Service.Decline(c.Context(), body.Token)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Invitation declined", inv, nil)
}

// serviceError maps invitation errors onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNotFound, projects.ErrProjectNotFound:
		return response.Error(c, err.Error(), 404, nil)
	case ErrAlreadyPending, ErrConflict, ErrAlreadyMember:
		return response.Error(c, err.Error(), 409, nil)
	case ErrInvalidCredentials:
		return response.Error(c, err.Error(), 401, nil)
	case projects.ErrNotOwner:
		return response.Error(c, err.Error(), 403, nil)
	case ErrExpired, ErrAlreadyResponded, ErrEmailMismatch, ErrInvalidEmail, ErrSelfInvite:
		return response.Error(c, err.Error(), 400, nil)
	case accounts.ErrNameRequired, accounts.ErrInvalidName, accounts.ErrInvalidEmailFormat,
		accounts.ErrPasswordTooShort, accounts.ErrEmailRegistered:
		return response.Error(c, err.Error(), 400, nil)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("invitation operation failed")
	return response.Error(c, "Internal Server Error", 500, nil)
}

// PrincipalFromSession extracts the authenticated principal from the session
// Locals, or nil when the request is anonymous.
func PrincipalFromSession(c *fiber.Ctx) *identity.Principal {
	u := middleware.GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	id, _ := m["user_id"].(string)
	email, _ := m["email"].(string)
	fullname, _ := m["fullname"].(string)
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	return &identity.Principal{UserID: parsed, Email: email, Fullname: fullname}
}
