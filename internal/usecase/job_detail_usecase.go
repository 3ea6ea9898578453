package usecase

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"jobnest/internal/domain/application"
	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/repository"
)

type JobDetail struct {
	Job     job.Job           `json:"job"`
	Applied application.Check `json:"applied"`
	Saved   bool              `json:"saved"`
}

// ApplyAction is what the apply button should offer.
type ApplyAction string

const (
	ActionLogin        ApplyAction = "login"
	ActionApply        ApplyAction = "apply"
	ActionApplyAgain   ApplyAction = "apply_again"
	ActionAlreadyApply ApplyAction = "already_applied"
)

func (d JobDetail) Action(authenticated bool) ApplyAction {
	switch {
	case d.Applied.CanApplyAgain():
		if !authenticated {
			return ActionLogin
		}
		return ActionApplyAgain
	case d.Applied.HasApplied:
		return ActionAlreadyApply
	case !authenticated:
		return ActionLogin
	default:
		return ActionApply
	}
}

type JobDetailUsecase struct {
	jobs    repository.JobRepository
	apps    repository.ApplicationRepository
	saved   repository.SavedJobRepository
	views   repository.JobViewRepository
	session CurrentUser
	logger  *log.Logger
}

func NewJobDetailUsecase(jobs repository.JobRepository, apps repository.ApplicationRepository, saved repository.SavedJobRepository, views repository.JobViewRepository, session CurrentUser, logger *log.Logger) *JobDetailUsecase {
	return &JobDetailUsecase{jobs: jobs, apps: apps, saved: saved, views: views, session: session, logger: logger}
}

// Get loads the job and, alongside it, records the view and checks the
// applied and saved flags. Only the job fetch can fail the call.
func (u *JobDetailUsecase) Get(ctx context.Context, id int64) (JobDetail, error) {
	var out JobDetail
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		j, err := u.jobs.Get(gctx, id)
		if err != nil {
			return err
		}
		out.Job = j
		return nil
	})

	g.Go(func() error {
		if err := u.views.Record(gctx, id); err != nil {
			u.optional("record view", id, err)
		}
		return nil
	})

	if _, ok := loggedIn(u.session); ok {
		g.Go(func() error {
			check, err := u.apps.CheckApplied(gctx, id)
			if err != nil {
				u.optional("check applied", id, err)
				return nil
			}
			out.Applied = check
			return nil
		})
		g.Go(func() error {
			saved, err := u.saved.CheckSaved(gctx, id)
			if err != nil {
				u.optional("check saved", id, err)
				return nil
			}
			out.Saved = saved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return JobDetail{}, err
	}
	out.Job.IsSaved = out.Saved
	return out, nil
}

// ToggleSave flips the saved flag and returns the new value.
func (u *JobDetailUsecase) ToggleSave(ctx context.Context, id int64, saved bool) (bool, error) {
	if _, ok := loggedIn(u.session); !ok {
		return saved, ErrUnauthorized
	}
	if saved {
		if _, err := u.saved.Unsave(ctx, id); err != nil {
			return saved, err
		}
		return false, nil
	}
	if _, err := u.saved.Save(ctx, id); err != nil {
		return saved, err
	}
	return true, nil
}

// optional logs failures of best-effort reads; auth refusals stay silent.
func (u *JobDetailUsecase) optional(op string, id int64, err error) {
	if httpapi.IsAuthAbsent(err) || u.logger == nil {
		return
	}
	u.logger.Printf("[JobDetail] %s failed job_id=%d err=%v", op, id, err)
}
