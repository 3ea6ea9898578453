package repository

import (
	"context"
	"strconv"

	"jobnest/internal/domain/community"
	"jobnest/internal/infrastructure/httpapi"
)

const communityPostsPath = "/community-posts"

type CommunityPostRepository interface {
	List(ctx context.Context, page, limit int) (httpapi.Page[community.Post], error)
	Get(ctx context.Context, id int64) (community.Post, error)
	Create(ctx context.Context, req community.PostRequest) (community.Post, error)
	Update(ctx context.Context, id int64, req community.PostRequest) (community.Post, error)
	Delete(ctx context.Context, id int64) error
}

type HTTPCommunityPostRepository struct {
	api *httpapi.Client
}

func NewHTTPCommunityPostRepository(api *httpapi.Client) *HTTPCommunityPostRepository {
	return &HTTPCommunityPostRepository{api: api}
}

func (r *HTTPCommunityPostRepository) List(ctx context.Context, page, limit int) (httpapi.Page[community.Post], error) {
	q := pageQuery(page, 0)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out httpapi.Page[community.Post]
	err := r.api.Get(ctx, communityPostsPath, q, &out)
	return out, err
}

func (r *HTTPCommunityPostRepository) Get(ctx context.Context, id int64) (community.Post, error) {
	var out community.Post
	if err := r.api.Get(ctx, idPath(communityPostsPath, id), nil, &out); err != nil {
		return community.Post{}, notFound(err, ErrPostNotFound)
	}
	return out, nil
}

func (r *HTTPCommunityPostRepository) Create(ctx context.Context, req community.PostRequest) (community.Post, error) {
	var out community.Post
	err := r.api.Post(ctx, communityPostsPath, req, &out)
	return out, err
}

func (r *HTTPCommunityPostRepository) Update(ctx context.Context, id int64, req community.PostRequest) (community.Post, error) {
	var out community.Post
	if err := r.api.Put(ctx, idPath(communityPostsPath, id), req, &out); err != nil {
		return community.Post{}, notFound(err, ErrPostNotFound)
	}
	return out, nil
}

func (r *HTTPCommunityPostRepository) Delete(ctx context.Context, id int64) error {
	return notFound(r.api.Delete(ctx, idPath(communityPostsPath, id), nil), ErrPostNotFound)
}
