package usecase

import (
	"context"
	"log"
	"strings"

	"jobnest/internal/domain/candidate"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
)

type CVUsecase struct {
	cvs    repository.CVRepository
	logger *log.Logger
}

func NewCVUsecase(cvs repository.CVRepository, logger *log.Logger) *CVUsecase {
	return &CVUsecase{cvs: cvs, logger: logger}
}

func (u *CVUsecase) List(ctx context.Context) ([]candidate.CV, error) {
	list, err := u.cvs.List(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

// Upload validates title and file before anything reaches the network.
func (u *CVUsecase) Upload(ctx context.Context, title, fileName string, content []byte, makeDefault bool) (candidate.CV, error) {
	title = strings.TrimSpace(title)
	if err := validation.CVTitle(title); err != nil {
		return candidate.CV{}, err
	}
	up, err := validation.CVFile(fileName, content)
	if err != nil {
		return candidate.CV{}, err
	}
	cv, err := u.cvs.Create(ctx, candidate.CVRequest{
		Title:     title,
		FileURL:   up.DataURL(),
		FileName:  up.Name,
		FileSize:  up.Size,
		IsDefault: makeDefault,
	})
	if err != nil {
		return candidate.CV{}, err
	}
	if u.logger != nil {
		u.logger.Printf("[CV] uploaded cv_id=%d size=%d", cv.ID, up.Size)
	}
	return cv, nil
}

// Rename keeps the stored file and changes only the title.
func (u *CVUsecase) Rename(ctx context.Context, cv candidate.CV, title string) (candidate.CV, error) {
	title = strings.TrimSpace(title)
	if err := validation.CVTitle(title); err != nil {
		return candidate.CV{}, err
	}
	return u.cvs.Update(ctx, cv.ID, candidate.CVRequest{
		Title:     title,
		FileURL:   cv.FileURL,
		FileName:  cv.FileName,
		FileSize:  cv.FileSize,
		IsDefault: cv.IsDefault,
	})
}

func (u *CVUsecase) Delete(ctx context.Context, id int64) error {
	return u.cvs.Delete(ctx, id)
}

func (u *CVUsecase) SetDefault(ctx context.Context, id int64) (candidate.CV, error) {
	return u.cvs.SetDefault(ctx, id)
}
