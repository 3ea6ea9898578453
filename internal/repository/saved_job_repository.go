package repository

import (
	"context"

	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
)

type SavedJobRepository interface {
	Save(ctx context.Context, jobID int64) (string, error)
	Unsave(ctx context.Context, jobID int64) (string, error)
	CheckSaved(ctx context.Context, jobID int64) (bool, error)
	MySaved(ctx context.Context, page, size int) (httpapi.Page[job.SavedJob], error)
}

type HTTPSavedJobRepository struct {
	api *httpapi.Client
}

func NewHTTPSavedJobRepository(api *httpapi.Client) *HTTPSavedJobRepository {
	return &HTTPSavedJobRepository{api: api}
}

func (r *HTTPSavedJobRepository) Save(ctx context.Context, jobID int64) (string, error) {
	var out message
	err := r.api.Post(ctx, idPath("/saved-jobs", jobID), nil, &out)
	return out.Message, err
}

func (r *HTTPSavedJobRepository) Unsave(ctx context.Context, jobID int64) (string, error) {
	var out message
	err := r.api.Delete(ctx, idPath("/saved-jobs", jobID), &out)
	return out.Message, err
}

func (r *HTTPSavedJobRepository) CheckSaved(ctx context.Context, jobID int64) (bool, error) {
	var out struct {
		IsSaved bool `json:"isSaved"`
	}
	if err := r.api.Get(ctx, idPath("/saved-jobs/check", jobID), nil, &out); err != nil {
		return false, err
	}
	return out.IsSaved, nil
}

func (r *HTTPSavedJobRepository) MySaved(ctx context.Context, page, size int) (httpapi.Page[job.SavedJob], error) {
	var out httpapi.Page[job.SavedJob]
	err := r.api.Get(ctx, "/saved-jobs/my-saved-jobs", pageQuery(page, size), &out)
	return out, err
}
