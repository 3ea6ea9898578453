package handler

import (
	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/user"
	"jobnest/internal/pkg/response"
	"jobnest/internal/usecase/auth"
)

// SessionHandler manages the gateway's own login, which anonymous requests
// and the notification relay run under.
type SessionHandler struct {
	session *auth.Session
}

func NewSessionHandler(session *auth.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil || h.session == nil {
		return
	}

	r.Get("/session", h.HandleGet)
	r.Post("/session/login", h.HandleLogin)
	r.Post("/session/logout", h.HandleLogout)
}

func (h *SessionHandler) HandleGet(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", sessionView(h.session.Snapshot()))
}

func (h *SessionHandler) HandleLogin(c fiber.Ctx) error {
	var req user.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if _, err := h.session.Login(c.Context(), req.Email, req.Password); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Logged in", sessionView(h.session.Snapshot()))
}

func (h *SessionHandler) HandleLogout(c fiber.Ctx) error {
	_ = h.session.Logout(c.Context())
	return response.Success(c, fiber.StatusOK, "Logged out", sessionView(h.session.Snapshot()))
}

func sessionView(s auth.Snapshot) fiber.Map {
	out := fiber.Map{"state": s.State.String(), "user": s.User}
	if s.Err != nil {
		out["error"] = s.Err.Error()
	}
	return out
}
