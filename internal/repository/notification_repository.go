package repository

import (
	"context"
	"encoding/json"
	"strconv"

	"jobnest/internal/domain/notification"
	"jobnest/internal/infrastructure/httpapi"
)

type NotificationRepository interface {
	List(ctx context.Context, params notification.ListParams) (httpapi.Page[notification.Notification], error)
	Get(ctx context.Context, id int64) (notification.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context) (int64, error)
	UpdatePreferences(ctx context.Context, pref notification.Preference) (notification.Preference, error)
}

type HTTPNotificationRepository struct {
	api *httpapi.Client
}

func NewHTTPNotificationRepository(api *httpapi.Client) *HTTPNotificationRepository {
	return &HTTPNotificationRepository{api: api}
}

func (r *HTTPNotificationRepository) List(ctx context.Context, params notification.ListParams) (httpapi.Page[notification.Notification], error) {
	q := pageQuery(params.Page, params.Size)
	if params.UnreadOnly {
		q.Set("unreadOnly", strconv.FormatBool(true))
	}
	var out httpapi.Page[notification.Notification]
	err := r.api.Get(ctx, "/notifications/all", q, &out)
	return out, err
}

func (r *HTTPNotificationRepository) Get(ctx context.Context, id int64) (notification.Notification, error) {
	var out notification.Notification
	if err := r.api.Get(ctx, idPath("/notifications", id), nil, &out); err != nil {
		return notification.Notification{}, notFound(err, ErrNotificationNotFound)
	}
	return out, nil
}

func (r *HTTPNotificationRepository) MarkRead(ctx context.Context, id int64) error {
	return notFound(r.api.Post(ctx, idPath("/notifications", id)+"/read", nil, nil), ErrNotificationNotFound)
}

func (r *HTTPNotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.api.Post(ctx, "/notifications/read-all", nil, nil)
}

func (r *HTTPNotificationRepository) Delete(ctx context.Context, id int64) error {
	return notFound(r.api.Delete(ctx, idPath("/notifications", id), nil), ErrNotificationNotFound)
}

// UnreadCount accepts both a bare number and {"count": n}.
func (r *HTTPNotificationRepository) UnreadCount(ctx context.Context) (int64, error) {
	var out unreadCount
	if err := r.api.Get(ctx, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return int64(out), nil
}

func (r *HTTPNotificationRepository) UpdatePreferences(ctx context.Context, pref notification.Preference) (notification.Preference, error) {
	var out notification.Preference
	err := r.api.Post(ctx, "/notifications/preferences", pref, &out)
	return out, err
}

type unreadCount int64

func (c *unreadCount) UnmarshalJSON(b []byte) error {
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*c = unreadCount(n)
		return nil
	}
	var obj struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*c = unreadCount(obj.Count)
	return nil
}
