package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobnest/internal/domain/application"
	"jobnest/internal/domain/candidate"
	"jobnest/internal/domain/job"
	"jobnest/internal/domain/notification"
	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/httpapi"
)

func newBackend(t *testing.T, mux *http.ServeMux) *httpapi.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return httpapi.NewClient(srv.URL+"/api", time.Second, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestApplicationRepository_ApplyForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/applications/apply/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Only candidates can apply"})
	})
	mux.HandleFunc("POST /api/applications/apply/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("POST /api/applications/apply/3", func(w http.ResponseWriter, r *http.Request) {
		var req application.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.CVID)
		writeJSON(w, http.StatusOK, application.Application{ID: 9, JobID: 3, CVID: req.CVID, Status: application.StatusPending})
	})
	repo := NewHTTPApplicationRepository(newBackend(t, mux))
	ctx := context.Background()

	_, err := repo.Apply(ctx, 1, application.Request{})
	require.ErrorIs(t, err, ErrApplyForbidden)
	assert.Equal(t, "Only candidates can apply", err.Error())
	assert.Equal(t, http.StatusForbidden, httpapi.StatusOf(err))

	_, err = repo.Apply(ctx, 2, application.Request{})
	require.ErrorIs(t, err, ErrApplyForbidden)
	assert.Equal(t, "You are not allowed to apply for this job.", err.Error())

	cv := int64(5)
	app, err := repo.Apply(ctx, 3, application.Request{CVID: &cv})
	require.NoError(t, err)
	assert.True(t, app.CanWithdraw())
}

func TestApplicationRepository_CheckAndList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/applications/check/4", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"hasApplied": true})
	})
	mux.HandleFunc("GET /api/applications/my-applications", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `{"content":[{"id":1,"status":"REVIEWED"}],"totalElements":6,"totalPages":2,"number":1,"size":5}`)
	})
	mux.HandleFunc("DELETE /api/applications/8", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "missing"})
	})
	repo := NewHTTPApplicationRepository(newBackend(t, mux))
	ctx := context.Background()

	check, err := repo.CheckApplied(ctx, 4)
	require.NoError(t, err)
	assert.True(t, check.HasApplied)

	page, err := repo.MyApplications(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 6, page.TotalElements)
	assert.Equal(t, application.StatusReviewed, page.Content[0].Status)

	_, err = repo.Withdraw(ctx, 8)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestCVRepository_DeleteRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/candidate/cvs/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "CV is used by 2 applications"})
	})
	mux.HandleFunc("DELETE /api/candidate/cvs/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("DELETE /api/candidate/cvs/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/candidate/cvs/4", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("PUT /api/candidate/cvs/3/set-default", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, candidate.CV{ID: 3, IsDefault: true})
	})
	repo := NewHTTPCVRepository(newBackend(t, mux))
	ctx := context.Background()

	err := repo.Delete(ctx, 1)
	require.ErrorIs(t, err, ErrCVInUse)
	assert.Equal(t, "CV is used by 2 applications", err.Error())

	var rej *RejectedError
	require.True(t, errors.As(repo.Delete(ctx, 2), &rej))
	assert.Equal(t, "Once a CV has been submitted, it cannot be deleted.", rej.Message)

	assert.NoError(t, repo.Delete(ctx, 3))
	assert.ErrorIs(t, repo.Delete(ctx, 4), ErrCVNotFound)

	cv, err := repo.SetDefault(ctx, 3)
	require.NoError(t, err)
	assert.True(t, cv.IsDefault)
}

func TestJobRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `{"content":[{"id":1,"title":"Go","postedAt":"2026-01-02T03:04:05"}],"totalElements":1}`)
	})
	mux.HandleFunc("GET /api/jobs/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("keyword"))
		assert.Empty(t, r.URL.Query().Get("location"))
		_, _ = io.WriteString(w, `[]`)
	})
	mux.HandleFunc("GET /api/jobs/77", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /api/jobs/categories/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"categoryName":"Design","openPositions":3}]`)
	})
	repo := NewHTTPJobRepository(newBackend(t, mux))
	ctx := context.Background()

	page, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, 2026, page.Content[0].PostedAt.Year())

	res, err := repo.Search(ctx, job.SearchParams{Keyword: "golang"})
	require.NoError(t, err)
	assert.Empty(t, res.Content)

	_, err = repo.Get(ctx, 77)
	assert.ErrorIs(t, err, ErrJobNotFound)

	stats, err := repo.CategoryStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []job.CategoryStats{{CategoryName: "Design", OpenPositions: 3}}, stats)
}

func TestNotificationRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications/all", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("unreadOnly"))
		_, _ = io.WriteString(w, `[{"id":1,"message":"hi","isRead":false},{"id":2,"message":"yo","isRead":true}]`)
	})
	mux.HandleFunc("GET /api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `4`)
	})
	mux.HandleFunc("POST /api/notifications/1/read", func(w http.ResponseWriter, r *http.Request) {})
	repo := NewHTTPNotificationRepository(newBackend(t, mux))
	ctx := context.Background()

	page, err := repo.List(ctx, notification.ListParams{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, notification.UnreadCount(page.Content))

	n, err := repo.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	assert.NoError(t, repo.MarkRead(ctx, 1))
}

func TestUnreadCount_ObjectForm(t *testing.T) {
	var c unreadCount
	require.NoError(t, json.Unmarshal([]byte(`{"count":7}`), &c))
	assert.Equal(t, unreadCount(7), c)
}

func TestAuthRepository_PlainTextMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Registration successful. Please verify your email.")
	})
	mux.HandleFunc("POST /api/auth/password/forgot", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rt", body["refreshToken"])
	})
	repo := NewHTTPAuthRepository(newBackend(t, mux))
	ctx := context.Background()

	msg, err := repo.Register(ctx, user.RegisterRequest{Username: "a", Email: "a@b.co", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Registration successful. Please verify your email.", msg)

	msg, err = repo.ForgotPassword(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "sent", msg)

	assert.NoError(t, repo.Logout(ctx, "rt"))
}

func TestCommunityPostRepository_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/community-posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[{"id":1,"title":"Hello","content":"World","likeCount":3}]`)
	})
	repo := NewHTTPCommunityPostRepository(newBackend(t, mux))

	page, err := repo.List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, 3, page.Content[0].LikeCount)
}
