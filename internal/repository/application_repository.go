package repository

import (
	"context"
	"net/http"

	"jobnest/internal/domain/application"
	"jobnest/internal/infrastructure/httpapi"
)

type ApplicationRepository interface {
	Apply(ctx context.Context, jobID int64, req application.Request) (application.Application, error)
	CheckApplied(ctx context.Context, jobID int64) (application.Check, error)
	MyApplications(ctx context.Context, page, size int) (httpapi.Page[application.Application], error)
	Get(ctx context.Context, id int64) (application.Application, error)
	Withdraw(ctx context.Context, id int64) (string, error)
}

type HTTPApplicationRepository struct {
	api *httpapi.Client
}

func NewHTTPApplicationRepository(api *httpapi.Client) *HTTPApplicationRepository {
	return &HTTPApplicationRepository{api: api}
}

// Apply turns a 403 into ErrApplyForbidden carrying the backend's reason.
func (r *HTTPApplicationRepository) Apply(ctx context.Context, jobID int64, req application.Request) (application.Application, error) {
	var out application.Application
	if err := r.api.Post(ctx, idPath("/applications/apply", jobID), req, &out); err != nil {
		if httpapi.IsStatus(err, http.StatusForbidden) {
			return application.Application{}, reject(ErrApplyForbidden, err, msgApplyForbidden)
		}
		return application.Application{}, err
	}
	return out, nil
}

func (r *HTTPApplicationRepository) CheckApplied(ctx context.Context, jobID int64) (application.Check, error) {
	var out application.Check
	err := r.api.Get(ctx, idPath("/applications/check", jobID), nil, &out)
	return out, err
}

func (r *HTTPApplicationRepository) MyApplications(ctx context.Context, page, size int) (httpapi.Page[application.Application], error) {
	var out httpapi.Page[application.Application]
	err := r.api.Get(ctx, "/applications/my-applications", pageQuery(page, size), &out)
	return out, err
}

func (r *HTTPApplicationRepository) Get(ctx context.Context, id int64) (application.Application, error) {
	var out application.Application
	if err := r.api.Get(ctx, idPath("/applications", id), nil, &out); err != nil {
		return application.Application{}, notFound(err, ErrApplicationNotFound)
	}
	return out, nil
}

func (r *HTTPApplicationRepository) Withdraw(ctx context.Context, id int64) (string, error) {
	var out message
	if err := r.api.Delete(ctx, idPath("/applications", id), &out); err != nil {
		return "", notFound(err, ErrApplicationNotFound)
	}
	return out.Message, nil
}
