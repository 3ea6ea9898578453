package v1

import (
	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/handler"
	"jobnest/internal/delivery/http/middleware"
)

type Handlers struct {
	Jobs          *handler.JobsHandler
	Me            *handler.MeHandler
	Notifications *handler.NotificationsHandler
	Community     *handler.CommunityHandler
	Session       *handler.SessionHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	bearer := middleware.NewBearerMiddleware()
	api := r.Group("", bearer.Middleware())

	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(api)
	}
	if h.Me != nil {
		h.Me.RegisterRoutes(api)
	}
	if h.Notifications != nil {
		h.Notifications.RegisterRoutes(api)
	}
	if h.Community != nil {
		h.Community.RegisterRoutes(api)
	}
	if h.Session != nil {
		h.Session.RegisterRoutes(api)
	}
}
