package handler

import (
	"github.com/gofiber/fiber/v3"

	"jobnest/internal/pkg/response"
	"jobnest/internal/realtime"
)

type cacheStatus interface {
	Available() bool
}

type relayStatus interface {
	ClientCount() int
}

type HealthHandler struct {
	cache    cacheStatus
	relay    relayStatus
	realtime func() realtime.ConnState
}

func NewHealthHandler(cache cacheStatus, relay relayStatus, realtimeState func() realtime.ConnState) *HealthHandler {
	return &HealthHandler{cache: cache, relay: relay, realtime: realtimeState}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := fiber.Map{"status": "ok"}
	if h.cache != nil {
		data["cache"] = h.cache.Available()
	}
	if h.relay != nil {
		data["relay_clients"] = h.relay.ClientCount()
	}
	if h.realtime != nil {
		data["realtime"] = h.realtime().String()
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
