package usecase

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"jobnest/internal/domain/application"
	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/repository"
)

var ErrCannotWithdraw = errors.New("only pending applications can be withdrawn")

// MyJobs is the candidate dashboard: three independent tabs.
type MyJobs struct {
	Applications []application.Application `json:"applications"`
	Saved        []job.SavedJob            `json:"saved"`
	Viewed       []job.ViewedJob           `json:"viewed"`
}

type MyJobsUsecase struct {
	apps    repository.ApplicationRepository
	saved   repository.SavedJobRepository
	views   repository.JobViewRepository
	session CurrentUser
	logger  *log.Logger
}

func NewMyJobsUsecase(apps repository.ApplicationRepository, saved repository.SavedJobRepository, views repository.JobViewRepository, session CurrentUser, logger *log.Logger) *MyJobsUsecase {
	return &MyJobsUsecase{apps: apps, saved: saved, views: views, session: session, logger: logger}
}

// Load fetches all tabs concurrently. A tab the backend refuses with 401 or
// 403 is shown empty.
func (u *MyJobsUsecase) Load(ctx context.Context, page, size int) (MyJobs, error) {
	if _, ok := loggedIn(u.session); !ok {
		return MyJobs{}, ErrUnauthorized
	}
	out := MyJobs{
		Applications: []application.Application{},
		Saved:        []job.SavedJob{},
		Viewed:       []job.ViewedJob{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := u.apps.MyApplications(gctx, page, size)
		if err != nil {
			return u.tabError("applications", err)
		}
		out.Applications = nonNil(p.Content)
		return nil
	})
	g.Go(func() error {
		p, err := u.saved.MySaved(gctx, page, size)
		if err != nil {
			return u.tabError("saved", err)
		}
		out.Saved = nonNil(p.Content)
		return nil
	})
	g.Go(func() error {
		p, err := u.views.MyViewed(gctx, page, size)
		if err != nil {
			return u.tabError("viewed", err)
		}
		out.Viewed = nonNil(p.Content)
		return nil
	})
	if err := g.Wait(); err != nil {
		return MyJobs{}, err
	}
	return out, nil
}

func (u *MyJobsUsecase) Withdraw(ctx context.Context, app application.Application) (string, error) {
	if !app.CanWithdraw() {
		return "", ErrCannotWithdraw
	}
	return u.apps.Withdraw(ctx, app.ID)
}

func (u *MyJobsUsecase) Unsave(ctx context.Context, jobID int64) (string, error) {
	return u.saved.Unsave(ctx, jobID)
}

func (u *MyJobsUsecase) tabError(tab string, err error) error {
	if httpapi.IsAuthAbsent(err) {
		return nil
	}
	if u.logger != nil {
		u.logger.Printf("[MyJobs] load %s failed err=%v", tab, err)
	}
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
