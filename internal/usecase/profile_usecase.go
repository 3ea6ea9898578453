package usecase

import (
	"context"
	"errors"
	"strings"

	"jobnest/internal/domain/candidate"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
)

type ProfileUsecase struct {
	profiles repository.CandidateProfileRepository
}

func NewProfileUsecase(profiles repository.CandidateProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profiles: profiles}
}

// Get returns ok=false when the candidate has no profile yet or may not
// read one.
func (u *ProfileUsecase) Get(ctx context.Context) (candidate.Profile, bool, error) {
	p, err := u.profiles.Get(ctx)
	switch {
	case err == nil:
		return p, true, nil
	case errors.Is(err, repository.ErrProfileNotFound), httpapi.IsAuthAbsent(err):
		return candidate.Profile{}, false, nil
	default:
		return candidate.Profile{}, false, err
	}
}

func (u *ProfileUsecase) Update(ctx context.Context, req candidate.ProfileRequest) (candidate.Profile, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validation.Required("fullName", req.FullName); err != nil {
		return candidate.Profile{}, err
	}
	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	req.Skills = skills
	return u.profiles.Update(ctx, req)
}

func (u *ProfileUsecase) UploadAvatar(ctx context.Context, fileName string, content []byte) (candidate.AvatarUpload, error) {
	up, err := validation.AvatarFile(fileName, content)
	if err != nil {
		return candidate.AvatarUpload{}, err
	}
	return u.profiles.UploadAvatar(ctx, up.Name, up.MIME, up.Content)
}
