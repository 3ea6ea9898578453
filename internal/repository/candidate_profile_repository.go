package repository

import (
	"context"

	"jobnest/internal/domain/candidate"
	"jobnest/internal/infrastructure/httpapi"
)

type CandidateProfileRepository interface {
	Get(ctx context.Context) (candidate.Profile, error)
	Update(ctx context.Context, req candidate.ProfileRequest) (candidate.Profile, error)
	UploadAvatar(ctx context.Context, fileName, contentType string, content []byte) (candidate.AvatarUpload, error)
}

type HTTPCandidateProfileRepository struct {
	api *httpapi.Client
}

func NewHTTPCandidateProfileRepository(api *httpapi.Client) *HTTPCandidateProfileRepository {
	return &HTTPCandidateProfileRepository{api: api}
}

func (r *HTTPCandidateProfileRepository) Get(ctx context.Context) (candidate.Profile, error) {
	var out candidate.Profile
	if err := r.api.Get(ctx, "/candidate/profile", nil, &out); err != nil {
		return candidate.Profile{}, notFound(err, ErrProfileNotFound)
	}
	return out, nil
}

// Update creates the profile on first save.
func (r *HTTPCandidateProfileRepository) Update(ctx context.Context, req candidate.ProfileRequest) (candidate.Profile, error) {
	var out candidate.Profile
	err := r.api.Put(ctx, "/candidate/profile", req, &out)
	return out, err
}

func (r *HTTPCandidateProfileRepository) UploadAvatar(ctx context.Context, fileName, contentType string, content []byte) (candidate.AvatarUpload, error) {
	var out candidate.AvatarUpload
	err := r.api.PostMultipart(ctx, "/candidate/profile/avatar", "file", fileName, contentType, content, &out)
	return out, err
}
