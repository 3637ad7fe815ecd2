package googleauth

import (
	"huddle-backend/internal/invitations"
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Bridge    *Bridge
	Exchanger TokenExchanger
	Config    middleware.SessionConfig
}

// GET /api/v1/invitations/public/google/begin?token= (no auth)
func (h *Handlers) Begin(c *fiber.Ctx) error {
	redirect, err := h.Bridge.Begin(c.Query("token"))
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return c.Redirect(redirect, fiber.StatusFound)
}

// GET /api/v1/auth/google/callback?state=&code= (no auth)
func (h *Handlers) Callback(c *fiber.Ctx) error {
	if provErr := c.Query("error"); provErr != "" {
		return response.Error(c, "Google sign-in was not completed", 400, map[string]interface{}{"provider_error": provErr})
	}
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		return response.Error(c, "Missing or invalid state", 400, nil)
	}

	principal, err := h.Exchanger.Exchange(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("google code exchange failed")
		return response.Error(c, "Google sign-in could not be verified", 502, nil)
	}

	result, err := h.Bridge.Resume(c.Context(), state, principal)
	if err != nil {
		switch err {
		case invitations.ErrNotFound:
			return response.Error(c, err.Error(), 404, nil)
		case invitations.ErrConflict:
			return response.Error(c, err.Error(), 409, nil)
		case invitations.ErrEmailMismatch, invitations.ErrExpired, invitations.ErrAlreadyResponded, ErrBadState:
			return response.Error(c, err.Error(), 400, nil)
		}
		log.Error().Err(err).Msg("google resume failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}

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
