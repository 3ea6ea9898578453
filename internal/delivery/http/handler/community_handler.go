package handler

import (
	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/community"
	"jobnest/internal/pkg/response"
)

type CommunityHandler struct {
	backend *Backend
}

func NewCommunityHandler(backend *Backend) *CommunityHandler {
	return &CommunityHandler{backend: backend}
}

func (h *CommunityHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/community/posts", h.HandleFeed)
	r.Post("/community/posts", h.HandleCreate)
	r.Get("/community/posts/:id", h.HandleGet)
	r.Put("/community/posts/:id", h.HandleUpdate)
	r.Delete("/community/posts/:id", h.HandleDelete)

	r.Get("/companies/top", h.HandleTopCompanies)
}

func (h *CommunityHandler) HandleFeed(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	feed, err := h.backend.community(c).Feed(c.Context(), page, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", feed)
}

func (h *CommunityHandler) HandleGet(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	p, err := h.backend.community(c).Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", p)
}

func (h *CommunityHandler) HandleCreate(c fiber.Ctx) error {
	var req community.PostRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	p, err := h.backend.community(c).Create(c.Context(), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Post created", p)
}

func (h *CommunityHandler) HandleUpdate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req community.PostRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	p, err := h.backend.community(c).Update(c.Context(), id, req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Post updated", p)
}

func (h *CommunityHandler) HandleDelete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.backend.community(c).Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Post deleted", nil)
}

func (h *CommunityHandler) HandleTopCompanies(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 6)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	list, err := h.backend.companies(c).Top(c.Context(), limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", list)
}
