package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/notification"
	"jobnest/internal/pkg/response"
	"jobnest/internal/usecase"
)

type NotificationsHandler struct {
	backend *Backend
}

func NewNotificationsHandler(backend *Backend) *NotificationsHandler {
	return &NotificationsHandler{backend: backend}
}

func (h *NotificationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	n := r.Group("/me/notifications", h.requireUser)
	n.Get("", h.HandleList)
	n.Get("/recent", h.HandleRecent)
	n.Get("/unread-count", h.HandleUnreadCount)
	n.Put("/preferences", h.HandleUpdatePreferences)
	n.Post("/read-all", h.HandleMarkAllRead)
	n.Get("/:id", h.HandleGet)
	n.Post("/:id/read", h.HandleMarkRead)
	n.Delete("/:id", h.HandleDelete)
}

// requireUser keeps anonymous callers away from the gateway's cached list,
// which belongs to whoever the gateway session last served.
func (h *NotificationsHandler) requireUser(c fiber.Ctx) error {
	if !h.backend.authenticated(c) {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Login required", nil, usecase.ErrUnauthorized)
	}
	return c.Next()
}

func (h *NotificationsHandler) HandleList(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	size, err := parseQueryIntStrict(c, "size", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))

	items, err := h.backend.notifications(c).List(c.Context(), notification.ListParams{
		Page:       page,
		Size:       size,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", items)
}

// HandleRecent answers from the live list, including pushes that arrived
// since the last refresh. refresh=true reloads it from the backend first.
func (h *NotificationsHandler) HandleRecent(c fiber.Ctx) error {
	center := h.backend.notifications(c)

	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	items, unread := center.Snapshot()
	if refresh || items == nil {
		var err error
		if items, unread, err = center.Refresh(c.Context()); err != nil {
			return mapUsecaseError(err)
		}
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"items": items, "unread": unread})
}

func (h *NotificationsHandler) HandleUnreadCount(c fiber.Ctx) error {
	count, err := h.backend.notifications(c).UnreadCount(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"count": count})
}

func (h *NotificationsHandler) HandleGet(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	n, err := h.backend.notifications(c).Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", n)
}

func (h *NotificationsHandler) HandleMarkRead(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.backend.notifications(c).MarkRead(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func (h *NotificationsHandler) HandleMarkAllRead(c fiber.Ctx) error {
	if err := h.backend.notifications(c).MarkAllRead(c.Context()); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func (h *NotificationsHandler) HandleDelete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.backend.notifications(c).Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func (h *NotificationsHandler) HandleUpdatePreferences(c fiber.Ctx) error {
	var pref notification.Preference
	if err := c.Bind().Body(&pref); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	out, err := h.backend.notifications(c).UpdatePreferences(c.Context(), pref)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}
