package repository

import (
	"context"

	"jobnest/internal/domain/candidate"
	"jobnest/internal/infrastructure/httpapi"
)

type CVRepository interface {
	List(ctx context.Context) ([]candidate.CV, error)
	Get(ctx context.Context, id int64) (candidate.CV, error)
	Default(ctx context.Context) (candidate.CV, error)
	Create(ctx context.Context, req candidate.CVRequest) (candidate.CV, error)
	Update(ctx context.Context, id int64, req candidate.CVRequest) (candidate.CV, error)
	Delete(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, id int64) (candidate.CV, error)
}

type HTTPCVRepository struct {
	api *httpapi.Client
}

func NewHTTPCVRepository(api *httpapi.Client) *HTTPCVRepository {
	return &HTTPCVRepository{api: api}
}

func (r *HTTPCVRepository) List(ctx context.Context) ([]candidate.CV, error) {
	out := make([]candidate.CV, 0)
	err := r.api.Get(ctx, "/candidate/cvs", nil, &out)
	return out, err
}

func (r *HTTPCVRepository) Get(ctx context.Context, id int64) (candidate.CV, error) {
	var out candidate.CV
	if err := r.api.Get(ctx, idPath("/candidate/cvs", id), nil, &out); err != nil {
		return candidate.CV{}, notFound(err, ErrCVNotFound)
	}
	return out, nil
}

func (r *HTTPCVRepository) Default(ctx context.Context) (candidate.CV, error) {
	var out candidate.CV
	if err := r.api.Get(ctx, "/candidate/cvs/default", nil, &out); err != nil {
		return candidate.CV{}, notFound(err, ErrCVNotFound)
	}
	return out, nil
}

func (r *HTTPCVRepository) Create(ctx context.Context, req candidate.CVRequest) (candidate.CV, error) {
	var out candidate.CV
	err := r.api.Post(ctx, "/candidate/cvs", req, &out)
	return out, err
}

func (r *HTTPCVRepository) Update(ctx context.Context, id int64, req candidate.CVRequest) (candidate.CV, error) {
	var out candidate.CV
	if err := r.api.Put(ctx, idPath("/candidate/cvs", id), req, &out); err != nil {
		return candidate.CV{}, notFound(err, ErrCVNotFound)
	}
	return out, nil
}

// Delete reports a backend refusal, typically a CV already attached to an
// application, as ErrCVInUse.
func (r *HTTPCVRepository) Delete(ctx context.Context, id int64) error {
	err := r.api.Delete(ctx, idPath("/candidate/cvs", id), nil)
	switch {
	case err == nil:
		return nil
	case isClientRejection(err):
		return reject(ErrCVInUse, err, msgCVInUse)
	default:
		return notFound(err, ErrCVNotFound)
	}
}

// SetDefault uses PUT; the backend routes both PUT and POST here.
func (r *HTTPCVRepository) SetDefault(ctx context.Context, id int64) (candidate.CV, error) {
	var out candidate.CV
	if err := r.api.Put(ctx, idPath("/candidate/cvs", id)+"/set-default", nil, &out); err != nil {
		return candidate.CV{}, notFound(err, ErrCVNotFound)
	}
	return out, nil
}
