package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/dto"
	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/job"
	"jobnest/internal/pkg/response"
	"jobnest/internal/search"
	"jobnest/internal/usecase"
)

const defaultSuggestLimit = 8

type JobsHandler struct {
	uc      usecase.JobListUsecase
	backend *Backend
}

func NewJobsHandler(uc usecase.JobListUsecase, backend *Backend) *JobsHandler {
	return &JobsHandler{uc: uc, backend: backend}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.HandleListJobs)
	r.Get("/jobs/filters", h.HandleFilters)
	r.Get("/jobs/suggestions", h.HandleSuggestions)
	r.Get("/jobs/search", h.HandleSearchJobs)
	r.Get("/jobs/categories/stats", h.HandleCategoryStats)
	r.Get("/jobs/:id", h.HandleJobDetail)
	r.Post("/jobs/:id/save", h.HandleSaveJob)
	r.Delete("/jobs/:id/save", h.HandleUnsaveJob)
	r.Get("/jobs/:id/apply", h.HandlePrepareApply)
	r.Post("/jobs/:id/apply", h.HandleApply)
}

// HandleListJobs runs the listing pipeline. Filter selections come in as one
// query parameter per category, values comma separated.
func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	pageSize, err := parseQueryIntStrict(c, "page_size", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	page, err := parseQueryIntStrict(c, "page", -1)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	sortMode, err := search.ParseSort(c.Query("sort"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	q := search.Query{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Selected: parseSelections(c),
		Sort:     sortMode,
		Offset:   offset,
		PageSize: pageSize,

		IgnoreDiacritics: c.Query("fold") == "true",
	}
	if page >= 0 {
		q.Offset = 0
	}

	listing, err := h.uc.ListJobs(c.Context(), q)
	if err != nil {
		return mapUsecaseError(err)
	}

	// A page index is resolved against the result count and wraps past the end.
	if page > 0 && listing.Total > 0 {
		q.Offset = search.OffsetForPage(page, listing.PageSize, listing.Total)
		if listing, err = h.uc.ListJobs(c.Context(), q); err != nil {
			return mapUsecaseError(err)
		}
	}

	return response.Success(c, fiber.StatusOK, "success", dto.NewListingResponse(listing))
}

func (h *JobsHandler) HandleFilters(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{
		"filters": search.Catalog(),
		"sorts":   search.SortModes(),
	})
}

func (h *JobsHandler) HandleSuggestions(c fiber.Ctx) error {
	field := c.Query("field", "title")
	if field != "title" && field != "location" {
		return middleware.NewAppError(fiber.StatusBadRequest, "field must be title or location", nil, nil)
	}
	limit, err := parseQueryIntStrict(c, "limit", defaultSuggestLimit)
	if err != nil || limit <= 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	out, err := h.uc.Suggest(c.Context(), field, c.Query("q"), limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	if out == nil {
		out = []string{}
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *JobsHandler) HandleSearchJobs(c fiber.Ctx) error {
	page, err := parseQueryIntStrict(c, "page", 0)
	if err != nil || page < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	size, err := parseQueryIntStrict(c, "size", 10)
	if err != nil || size <= 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.SearchJobs(c.Context(), job.SearchParams{
		Keyword:  c.Query("keyword"),
		Location: c.Query("location"),
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Page:     page,
		Size:     size,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "success", fiber.Map{
		"jobs":        dto.NewJobCards(res.Content),
		"page":        res.Number,
		"total":       res.TotalElements,
		"total_pages": res.TotalPages,
	})
}

func (h *JobsHandler) HandleCategoryStats(c fiber.Ctx) error {
	stats, err := h.uc.CategoryStats(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	if stats == nil {
		stats = []job.CategoryStats{}
	}
	return response.Success(c, fiber.StatusOK, "success", stats)
}

func (h *JobsHandler) HandleJobDetail(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	d, err := h.backend.detail(c).Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "success", fiber.Map{
		"job":     d.Job,
		"applied": d.Applied,
		"saved":   d.Saved,
		"action":  d.Action(h.backend.authenticated(c)),
	})
}

func (h *JobsHandler) HandleSaveJob(c fiber.Ctx) error {
	return h.toggleSave(c, false)
}

func (h *JobsHandler) HandleUnsaveJob(c fiber.Ctx) error {
	return h.toggleSave(c, true)
}

func (h *JobsHandler) toggleSave(c fiber.Ctx, saved bool) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	now, err := h.backend.detail(c).ToggleSave(c.Context(), id, saved)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"saved": now})
}

func (h *JobsHandler) HandlePrepareApply(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	form, err := h.backend.apply(c).Prepare(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", form)
}

type applyRequest struct {
	CVID        *int64 `json:"cv_id"`
	CoverLetter string `json:"cover_letter"`
	ResumeURL   string `json:"resume_url"`
}

func (h *JobsHandler) HandleApply(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	app, err := h.backend.apply(c).Submit(c.Context(), id, usecase.ApplyInput{
		CVID:        req.CVID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted", app)
}

func parseSelections(c fiber.Ctx) map[search.FilterCategory][]string {
	var out map[search.FilterCategory][]string
	for _, cat := range search.Categories() {
		raw := c.Query(string(cat))
		if raw == "" {
			continue
		}
		vals := splitCSV(raw)
		if len(vals) == 0 {
			continue
		}
		if out == nil {
			out = make(map[search.FilterCategory][]string)
		}
		out[cat] = vals
	}
	return out
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
