package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/candidate"
	"jobnest/internal/pkg/response"
	"jobnest/internal/pkg/validation"
)

const maxUploadBytes = validation.MaxUploadBytes + 1

// MeHandler serves the signed-in candidate's own resources.
type MeHandler struct {
	backend *Backend
}

func NewMeHandler(backend *Backend) *MeHandler {
	return &MeHandler{backend: backend}
}

func (h *MeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	me := r.Group("/me")
	me.Get("/jobs", h.HandleMyJobs)
	me.Post("/applications/:id/withdraw", h.HandleWithdraw)

	me.Get("/cvs", h.HandleListCVs)
	me.Post("/cvs", h.HandleUploadCV)
	me.Put("/cvs/:id", h.HandleRenameCV)
	me.Put("/cvs/:id/default", h.HandleSetDefaultCV)
	me.Delete("/cvs/:id", h.HandleDeleteCV)

	me.Get("/profile", h.HandleGetProfile)
	me.Put("/profile", h.HandleUpdateProfile)
	me.Post("/profile/avatar", h.HandleUploadAvatar)
}

func (h *MeHandler) HandleMyJobs(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	size, err := parseQueryIntStrict(c, "size", 10)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.backend.myJobs(c).Load(c.Context(), page, size)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *MeHandler) HandleWithdraw(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	app, err := h.backend.applications(c).Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	msg, err := h.backend.myJobs(c).Withdraw(c.Context(), app)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, msg, nil)
}

func (h *MeHandler) HandleListCVs(c fiber.Ctx) error {
	list, err := h.backend.cvs(c).List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", list)
}

// HandleUploadCV takes a multipart form with a "file" part and a "title"
// field; "default=true" makes it the default CV.
func (h *MeHandler) HandleUploadCV(c fiber.Ctx) error {
	name, content, err := readFormFile(c, "file")
	if err != nil {
		return err
	}
	makeDefault, _ := strconv.ParseBool(c.FormValue("default"))

	cv, err := h.backend.cvs(c).Upload(c.Context(), c.FormValue("title"), name, content, makeDefault)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "CV uploaded", cv)
}

type renameCVRequest struct {
	Title string `json:"title"`
}

func (h *MeHandler) HandleRenameCV(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req renameCVRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	current, err := h.backend.cvRepo(c).Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}

	cv, err := h.backend.cvs(c).Rename(c.Context(), current, req.Title)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "CV updated", cv)
}

func (h *MeHandler) HandleSetDefaultCV(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	cv, err := h.backend.cvs(c).SetDefault(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Default CV updated", cv)
}

func (h *MeHandler) HandleDeleteCV(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.backend.cvs(c).Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "CV deleted", nil)
}

func (h *MeHandler) HandleGetProfile(c fiber.Ctx) error {
	p, ok, err := h.backend.profile(c).Get(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	if !ok {
		return response.Success(c, fiber.StatusOK, "No profile yet", nil)
	}
	return response.Success(c, fiber.StatusOK, "success", p)
}

func (h *MeHandler) HandleUpdateProfile(c fiber.Ctx) error {
	var req candidate.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	p, err := h.backend.profile(c).Update(c.Context(), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", p)
}

func (h *MeHandler) HandleUploadAvatar(c fiber.Ctx) error {
	name, content, err := readFormFile(c, "file")
	if err != nil {
		return err
	}
	up, err := h.backend.profile(c).UploadAvatar(c.Context(), name, content)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, up.Message, up)
}

// readFormFile stops one byte past the upload limit; validation rejects
// anything that long.
func readFormFile(c fiber.Ctx, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "file is required", nil, err)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return fh.Filename, content, nil
}
