package usecase

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobnest/internal/domain/application"
	"jobnest/internal/domain/candidate"
	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
)

// ApplyForm is the apply page prefilled from the candidate's profile.
type ApplyForm struct {
	Job         job.Job        `json:"job"`
	Email       string         `json:"email"`
	FullName    string         `json:"fullName"`
	Phone       string         `json:"phone"`
	CoverLetter string         `json:"coverLetter"`
	CVs         []candidate.CV `json:"cvs"`
	SelectedCV  *int64         `json:"selectedCvId,omitempty"`
}

type ApplyInput struct {
	CVID        *int64
	CoverLetter string
	ResumeURL   string
}

type ApplyUsecase struct {
	jobs     repository.JobRepository
	apps     repository.ApplicationRepository
	profiles repository.CandidateProfileRepository
	cvs      repository.CVRepository
	session  CurrentUser
	logger   *log.Logger
}

func NewApplyUsecase(jobs repository.JobRepository, apps repository.ApplicationRepository, profiles repository.CandidateProfileRepository, cvs repository.CVRepository, session CurrentUser, logger *log.Logger) *ApplyUsecase {
	return &ApplyUsecase{jobs: jobs, apps: apps, profiles: profiles, cvs: cvs, session: session, logger: logger}
}

// Prepare builds the form. It refuses with ErrAlreadyApplied unless the
// earlier application was withdrawn.
func (u *ApplyUsecase) Prepare(ctx context.Context, jobID int64) (ApplyForm, error) {
	usr, ok := loggedIn(u.session)
	if !ok {
		return ApplyForm{}, ErrUnauthorized
	}

	form := ApplyForm{Email: usr.Email, CVs: []candidate.CV{}}
	var check application.Check

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		j, err := u.jobs.Get(gctx, jobID)
		if err != nil {
			return err
		}
		form.Job = j
		return nil
	})
	g.Go(func() error {
		c, err := u.apps.CheckApplied(gctx, jobID)
		if err != nil {
			u.optional("check applied", err)
			return nil
		}
		check = c
		return nil
	})
	g.Go(func() error {
		p, err := u.profiles.Get(gctx)
		if err != nil {
			u.optional("load profile", err)
			return nil
		}
		form.FullName = p.FullName
		form.Phone = p.PhoneNumber
		form.CoverLetter = p.AboutMe
		return nil
	})
	g.Go(func() error {
		list, err := u.cvs.List(gctx)
		if err != nil {
			u.optional("load cvs", err)
			return nil
		}
		form.CVs = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return ApplyForm{}, err
	}

	if check.HasApplied && !check.CanApplyAgain() {
		return form, ErrAlreadyApplied
	}
	if cv, ok := candidate.DefaultCV(form.CVs); ok {
		id := cv.ID
		form.SelectedCV = &id
	}
	return form, nil
}

func (u *ApplyUsecase) Submit(ctx context.Context, jobID int64, in ApplyInput) (application.Application, error) {
	if _, ok := loggedIn(u.session); !ok {
		return application.Application{}, ErrUnauthorized
	}
	if in.CVID == nil || *in.CVID <= 0 {
		return application.Application{}, ErrCVRequired
	}
	req := application.Request{
		CVID:        in.CVID,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
	}
	app, err := u.apps.Apply(ctx, jobID, req)
	if err != nil {
		return application.Application{}, err
	}
	if u.logger != nil {
		u.logger.Printf("[Apply] submitted job_id=%d application_id=%d", jobID, app.ID)
	}
	return app, nil
}

// AttachResume validates an optional resume file and returns it as the data
// URL the apply endpoint stores.
func AttachResume(name string, content []byte) (string, error) {
	up, err := validation.CVFile(name, content)
	if err != nil {
		return "", err
	}
	return up.DataURL(), nil
}

func (u *ApplyUsecase) optional(op string, err error) {
	if httpapi.IsAuthAbsent(err) || u.logger == nil {
		return
	}
	u.logger.Printf("[Apply] %s failed err=%v", op, err)
}
