package repository

import (
	"context"

	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
)

type JobViewRepository interface {
	Record(ctx context.Context, jobID int64) error
	MyViewed(ctx context.Context, page, size int) (httpapi.Page[job.ViewedJob], error)
}

type HTTPJobViewRepository struct {
	api *httpapi.Client
}

func NewHTTPJobViewRepository(api *httpapi.Client) *HTTPJobViewRepository {
	return &HTTPJobViewRepository{api: api}
}

func (r *HTTPJobViewRepository) Record(ctx context.Context, jobID int64) error {
	return r.api.Post(ctx, idPath("/job-views", jobID), nil, nil)
}

func (r *HTTPJobViewRepository) MyViewed(ctx context.Context, page, size int) (httpapi.Page[job.ViewedJob], error) {
	var out httpapi.Page[job.ViewedJob]
	err := r.api.Get(ctx, "/job-views/my-viewed-jobs", pageQuery(page, size), &out)
	return out, err
}
