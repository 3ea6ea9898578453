package repository

import (
	"context"
	"net/url"
	"strconv"

	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
)

type JobRepository interface {
	List(ctx context.Context, page, size int) (httpapi.Page[job.Job], error)
	Search(ctx context.Context, params job.SearchParams) (httpapi.Page[job.Job], error)
	Get(ctx context.Context, id int64) (job.Job, error)
	CategoryStats(ctx context.Context) ([]job.CategoryStats, error)
}

type HTTPJobRepository struct {
	api *httpapi.Client
}

func NewHTTPJobRepository(api *httpapi.Client) *HTTPJobRepository {
	return &HTTPJobRepository{api: api}
}

func (r *HTTPJobRepository) List(ctx context.Context, page, size int) (httpapi.Page[job.Job], error) {
	var out httpapi.Page[job.Job]
	err := r.api.Get(ctx, "/jobs", pageQuery(page, size), &out)
	return out, err
}

func (r *HTTPJobRepository) Search(ctx context.Context, params job.SearchParams) (httpapi.Page[job.Job], error) {
	q := pageQuery(params.Page, params.Size)
	q.Set("keyword", params.Keyword)
	setIf(q, "location", params.Location)
	setIf(q, "category", params.Category)
	setIf(q, "type", params.Type)

	var out httpapi.Page[job.Job]
	err := r.api.Get(ctx, "/jobs/search", q, &out)
	return out, err
}

func (r *HTTPJobRepository) Get(ctx context.Context, id int64) (job.Job, error) {
	var out job.Job
	if err := r.api.Get(ctx, "/jobs/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return job.Job{}, notFound(err, ErrJobNotFound)
	}
	return out, nil
}

func (r *HTTPJobRepository) CategoryStats(ctx context.Context) ([]job.CategoryStats, error) {
	out := make([]job.CategoryStats, 0)
	err := r.api.Get(ctx, "/jobs/categories/stats", nil, &out)
	return out, err
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page < 0 {
		page = 0
	}
	q.Set("page", strconv.Itoa(page))
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
