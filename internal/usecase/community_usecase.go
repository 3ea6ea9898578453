package usecase

import (
	"context"
	"strings"

	"jobnest/internal/domain/community"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
)

const defaultFeedLimit = 10

type CommunityUsecase struct {
	posts repository.CommunityPostRepository
}

func NewCommunityUsecase(posts repository.CommunityPostRepository) *CommunityUsecase {
	return &CommunityUsecase{posts: posts}
}

func (u *CommunityUsecase) Feed(ctx context.Context, page, limit int) (httpapi.Page[community.Post], error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	p, err := u.posts.List(ctx, page, limit)
	if err != nil {
		return httpapi.Page[community.Post]{}, err
	}
	p.Content = nonNil(p.Content)
	return p, nil
}

func (u *CommunityUsecase) Get(ctx context.Context, id int64) (community.Post, error) {
	return u.posts.Get(ctx, id)
}

func (u *CommunityUsecase) Create(ctx context.Context, req community.PostRequest) (community.Post, error) {
	req, err := cleanPost(req)
	if err != nil {
		return community.Post{}, err
	}
	return u.posts.Create(ctx, req)
}

func (u *CommunityUsecase) Update(ctx context.Context, id int64, req community.PostRequest) (community.Post, error) {
	req, err := cleanPost(req)
	if err != nil {
		return community.Post{}, err
	}
	return u.posts.Update(ctx, id, req)
}

func (u *CommunityUsecase) Delete(ctx context.Context, id int64) error {
	return u.posts.Delete(ctx, id)
}

func cleanPost(req community.PostRequest) (community.PostRequest, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.Category = strings.TrimSpace(req.Category)
	if err := validation.Required("title", req.Title); err != nil {
		return req, err
	}
	if err := validation.Required("content", req.Content); err != nil {
		return req, err
	}
	return req, nil
}
