package handler

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
)

// caller is the user a forwarded bearer token speaks for.
type caller struct {
	u user.User
}

func (c caller) User() (user.User, bool) { return c.u, true }

// Backend builds per-request flows against the backend API.
type Backend struct {
	api     *httpapi.Client
	session usecase.CurrentUser
	center  *usecase.NotificationCenter
	logger  *log.Logger
}

// NewBackend takes the gateway's own session and its live notification
// center; requests carrying no bearer token are served through them.
func NewBackend(api *httpapi.Client, session usecase.CurrentUser, center *usecase.NotificationCenter, logger *log.Logger) *Backend {
	return &Backend{api: api, session: session, center: center, logger: logger}
}

// scope picks the client and identity for one request: the caller's own
// token when they sent one, the gateway's session otherwise.
func (b *Backend) scope(c fiber.Ctx) (*httpapi.Client, usecase.CurrentUser) {
	token, claims, ok := middleware.Bearer(c)
	if !ok {
		return b.api, b.session
	}
	id, email := claims.Account()
	u := user.User{ID: id, Email: email, Role: user.Role(claims.Role)}
	return b.api.WithToken(token), caller{u: u}
}

func (b *Backend) authenticated(c fiber.Ctx) bool {
	_, s := b.scope(c)
	if s == nil {
		return false
	}
	_, ok := s.User()
	return ok
}

func (b *Backend) detail(c fiber.Ctx) *usecase.JobDetailUsecase {
	api, s := b.scope(c)
	return usecase.NewJobDetailUsecase(
		repository.NewHTTPJobRepository(api),
		repository.NewHTTPApplicationRepository(api),
		repository.NewHTTPSavedJobRepository(api),
		repository.NewHTTPJobViewRepository(api),
		s, b.logger,
	)
}

func (b *Backend) apply(c fiber.Ctx) *usecase.ApplyUsecase {
	api, s := b.scope(c)
	return usecase.NewApplyUsecase(
		repository.NewHTTPJobRepository(api),
		repository.NewHTTPApplicationRepository(api),
		repository.NewHTTPCandidateProfileRepository(api),
		repository.NewHTTPCVRepository(api),
		s, b.logger,
	)
}

func (b *Backend) myJobs(c fiber.Ctx) *usecase.MyJobsUsecase {
	api, s := b.scope(c)
	return usecase.NewMyJobsUsecase(
		repository.NewHTTPApplicationRepository(api),
		repository.NewHTTPSavedJobRepository(api),
		repository.NewHTTPJobViewRepository(api),
		s, b.logger,
	)
}

func (b *Backend) cvRepo(c fiber.Ctx) repository.CVRepository {
	api, _ := b.scope(c)
	return repository.NewHTTPCVRepository(api)
}

func (b *Backend) cvs(c fiber.Ctx) *usecase.CVUsecase {
	return usecase.NewCVUsecase(b.cvRepo(c), b.logger)
}

func (b *Backend) profile(c fiber.Ctx) *usecase.ProfileUsecase {
	api, _ := b.scope(c)
	return usecase.NewProfileUsecase(repository.NewHTTPCandidateProfileRepository(api))
}

func (b *Backend) applications(c fiber.Ctx) repository.ApplicationRepository {
	api, _ := b.scope(c)
	return repository.NewHTTPApplicationRepository(api)
}

func (b *Backend) notifications(c fiber.Ctx) *usecase.NotificationCenter {
	if _, _, ok := middleware.Bearer(c); !ok && b.center != nil {
		return b.center
	}
	api, _ := b.scope(c)
	return usecase.NewNotificationCenter(repository.NewHTTPNotificationRepository(api), 0, b.logger)
}

func (b *Backend) community(c fiber.Ctx) *usecase.CommunityUsecase {
	api, _ := b.scope(c)
	return usecase.NewCommunityUsecase(repository.NewHTTPCommunityPostRepository(api))
}

func (b *Backend) companies(c fiber.Ctx) *usecase.CompanyUsecase {
	api, _ := b.scope(c)
	return usecase.NewCompanyUsecase(repository.NewHTTPCompanyRepository(api))
}
