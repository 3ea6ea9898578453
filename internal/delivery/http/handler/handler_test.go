package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobnest/internal/config"
	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/domain/notification"
	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/pkg/jwt"
	"jobnest/internal/realtime"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type anonymous struct{}

func (anonymous) User() (user.User, bool) { return user.User{}, false }

var quiet = log.New(io.Discard, "", 0)

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newGateway(t *testing.T, mux *http.ServeMux, listing config.ListingConfig) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	api := httpapi.NewClient(srv.URL+"/api", time.Second, quiet)

	backend := NewBackend(api, anonymous{}, nil, quiet)
	jobs := usecase.NewJobListUsecase(repository.NewHTTPJobRepository(api), nil, listing, time.Minute, quiet)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(quiet).Middleware())
	NewHealthHandler(nil, nil, nil).RegisterRoutes(app)

	v1 := app.Group("/api/v1", middleware.NewBearerMiddleware().Middleware())
	NewJobsHandler(jobs, backend).RegisterRoutes(v1)
	NewMeHandler(backend).RegisterRoutes(v1)
	NewNotificationsHandler(backend).RegisterRoutes(v1)
	NewCommunityHandler(backend).RegisterRoutes(v1)
	return app
}

func call(t *testing.T, app *fiber.App, method, target, token string, body io.Reader) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.Claims{
		Email: "an@example.com",
		Role:  string(user.RoleCandidate),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func jobsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"content": []map[string]any{
				{"id": 1, "title": "Go Developer", "companyName": "Acme", "location": "Jakarta", "type": "FULLTIME", "minSalary": 60000, "maxSalary": 80000},
				{"id": 2, "title": "Designer", "companyName": "Pixel", "location": "Bandung", "type": "PART_TIME"},
				{"id": 3, "title": "Backend Engineer", "companyName": "Acme", "location": "Jakarta", "type": "FULLTIME", "minSalary": 90000, "maxSalary": 110000},
			},
			"totalElements": 3,
		})
	})
	return mux
}

func TestHealth(t *testing.T) {
	app := newGateway(t, http.NewServeMux(), config.ListingConfig{})

	status, env := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestListJobs_FiltersSortsAndCounts(t *testing.T) {
	app := newGateway(t, jobsMux(), config.ListingConfig{PageSize: 4})

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs?type_of_employment=Full%20Time&sort=salary_high", "", nil)
	require.Equal(t, http.StatusOK, status)

	var out struct {
		Jobs []struct {
			ID         int64  `json:"id"`
			Employment string `json:"employment"`
		} `json:"jobs"`
		Total  int                       `json:"total"`
		Counts map[string]map[string]int `json:"counts"`
		Source string                    `json:"source"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Jobs, 2)
	assert.Equal(t, int64(3), out.Jobs[0].ID)
	assert.Equal(t, "Full Time", out.Jobs[0].Employment)
	assert.Equal(t, "live", out.Source)
	// the employment group ignores its own selection
	assert.Equal(t, 1, out.Counts["type_of_employment"]["Part Time"])
}

func TestListJobs_PageWrapsPastEnd(t *testing.T) {
	app := newGateway(t, jobsMux(), config.ListingConfig{})

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs?page=2&page_size=2", "", nil)
	require.Equal(t, http.StatusOK, status)

	var out struct {
		Offset int `json:"offset"`
		Jobs   []struct {
			ID int64 `json:"id"`
		} `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 1, out.Offset)
	assert.Len(t, out.Jobs, 2)
}

func TestListJobs_BadQuery(t *testing.T) {
	app := newGateway(t, jobsMux(), config.ListingConfig{})

	tests := []struct {
		name   string
		target string
	}{
		{"unknown sort", "/api/v1/jobs?sort=cheapest"},
		{"non numeric offset", "/api/v1/jobs?offset=abc"},
		{"negative offset", "/api/v1/jobs?offset=-4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, http.MethodGet, tt.target, "", nil)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestListJobs_BackendDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})

	t.Run("without fallback", func(t *testing.T) {
		app := newGateway(t, mux, config.ListingConfig{})
		status, env := call(t, app, http.MethodGet, "/api/v1/jobs", "", nil)
		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, "upstream unavailable", env.Message)
	})

	t.Run("with fallback", func(t *testing.T) {
		app := newGateway(t, mux, config.ListingConfig{Fallback: true})
		status, env := call(t, app, http.MethodGet, "/api/v1/jobs", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), `"source":"fallback"`)
	})
}

func TestSuggestions(t *testing.T) {
	app := newGateway(t, jobsMux(), config.ListingConfig{})

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs/suggestions?field=location&q=jak", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["Jakarta"]`, string(env.Data))

	status, _ = call(t, app, http.MethodGet, "/api/v1/jobs/suggestions?field=salary", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestJobDetail_ForwardsCallerToken(t *testing.T) {
	tok := signedToken(t, "7", time.Now().Add(time.Hour))
	var seen atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs/5", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"id": 5, "title": "Go Developer"})
	})
	mux.HandleFunc("POST /api/job-views/5", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/applications/check/5", func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		reply(w, http.StatusOK, map[string]any{"hasApplied": true, "status": "PENDING"})
	})
	mux.HandleFunc("GET /api/saved-jobs/check/5", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"isSaved": true})
	})
	app := newGateway(t, mux, config.ListingConfig{})

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs/5", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bearer "+tok, seen.Load())

	var out struct {
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "already_applied", out.Action)
}

func TestJobDetail_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs/9", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusNotFound, map[string]string{"message": "Job not found"})
	})
	mux.HandleFunc("POST /api/job-views/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	app := newGateway(t, mux, config.ListingConfig{})

	status, _ := call(t, app, http.MethodGet, "/api/v1/jobs/9", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/jobs/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBearer_RejectsBadTokens(t *testing.T) {
	app := newGateway(t, jobsMux(), config.ListingConfig{})

	status, env := call(t, app, http.MethodGet, "/api/v1/jobs", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", env.Message)

	expired := signedToken(t, "7", time.Now().Add(-time.Minute))
	status, env = call(t, app, http.MethodGet, "/api/v1/jobs", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token expired", env.Message)
}

func TestApply(t *testing.T) {
	var applied atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/applications/apply/5", func(w http.ResponseWriter, r *http.Request) {
		applied.Add(1)
		reply(w, http.StatusOK, map[string]any{"id": 11, "jobId": 5, "status": "PENDING"})
	})
	app := newGateway(t, mux, config.ListingConfig{})
	tok := signedToken(t, "7", time.Now().Add(time.Hour))

	status, _ := call(t, app, http.MethodPost, "/api/v1/jobs/5/apply", "", strings.NewReader(`{"cv_id":3}`))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := call(t, app, http.MethodPost, "/api/v1/jobs/5/apply", tok, strings.NewReader(`{"cover_letter":"hi"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please select a CV to submit", env.Message)
	assert.Zero(t, applied.Load())

	status, _ = call(t, app, http.MethodPost, "/api/v1/jobs/5/apply", tok, strings.NewReader(`{"cv_id":3}`))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int32(1), applied.Load())
}

func TestApply_ForbiddenKeepsBackendMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/applications/apply/5", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusForbidden, map[string]string{"message": "Employers cannot apply"})
	})
	app := newGateway(t, mux, config.ListingConfig{})
	tok := signedToken(t, "7", time.Now().Add(time.Hour))

	status, env := call(t, app, http.MethodPost, "/api/v1/jobs/5/apply", tok, strings.NewReader(`{"cv_id":3}`))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Employers cannot apply", env.Message)
}

func TestWithdraw_OnlyPending(t *testing.T) {
	var withdrawn atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/applications/4", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"id": 4, "status": "REVIEWED"})
	})
	mux.HandleFunc("GET /api/applications/6", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"id": 6, "status": "PENDING"})
	})
	mux.HandleFunc("DELETE /api/applications/6", func(w http.ResponseWriter, r *http.Request) {
		withdrawn.Add(1)
		reply(w, http.StatusOK, map[string]string{"message": "Application withdrawn"})
	})
	app := newGateway(t, mux, config.ListingConfig{})
	tok := signedToken(t, "7", time.Now().Add(time.Hour))

	status, _ := call(t, app, http.MethodPost, "/api/v1/me/applications/4/withdraw", tok, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env := call(t, app, http.MethodPost, "/api/v1/me/applications/6/withdraw", tok, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Application withdrawn", env.Message)
	assert.Equal(t, int32(1), withdrawn.Load())
}

func TestDeleteCV_InUse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/candidate/cvs/3", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusBadRequest, map[string]string{})
	})
	app := newGateway(t, mux, config.ListingConfig{})
	tok := signedToken(t, "7", time.Now().Add(time.Hour))

	status, env := call(t, app, http.MethodDelete, "/api/v1/me/cvs/3", tok, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Once a CV has been submitted, it cannot be deleted.", env.Message)
}

func TestCommunity_CreateValidates(t *testing.T) {
	var created atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/community-posts", func(w http.ResponseWriter, r *http.Request) {
		created.Add(1)
		reply(w, http.StatusOK, map[string]any{"id": 1, "title": "Hello", "content": "World"})
	})
	app := newGateway(t, mux, config.ListingConfig{})

	status, _ := call(t, app, http.MethodPost, "/api/v1/community/posts", "", strings.NewReader(`{"title":"  ","content":"x"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Zero(t, created.Load())

	status, _ = call(t, app, http.MethodPost, "/api/v1/community/posts", "", strings.NewReader(`{"title":"Hello","content":"World"}`))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int32(1), created.Load())
}

func TestTopCompanies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/companies/top", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Small", "openPositions": 1},
			{"id": 2, "name": "Big", "openPositions": 9},
			{"id": 3, "name": "Mid", "openPositions": 4},
		})
	})
	app := newGateway(t, mux, config.ListingConfig{})

	status, env := call(t, app, http.MethodGet, "/api/v1/companies/top?limit=2", "", nil)
	require.Equal(t, http.StatusOK, status)

	var out []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Big", out[0].Name)
	assert.Equal(t, "Mid", out[1].Name)
}

func TestNotifications_AnonymousCannotReadGatewayList(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications/all", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		reply(w, http.StatusOK, []map[string]any{{"id": 9, "message": "B's update", "isRead": false}})
	})
	mux.HandleFunc("GET /api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		reply(w, http.StatusOK, 1)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	api := httpapi.NewClient(srv.URL+"/api", time.Second, quiet)

	center := usecase.NewNotificationCenter(repository.NewHTTPNotificationRepository(api), 0, quiet)
	center.Push(realtime.Message{Parsed: true, Notification: notification.Notification{ID: 7, Message: "A's interview offer"}})

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(quiet).Middleware())
	v1 := app.Group("/api/v1", middleware.NewBearerMiddleware().Middleware())
	NewNotificationsHandler(NewBackend(api, anonymous{}, center, quiet)).RegisterRoutes(v1)

	status, env := call(t, app, "GET", "/api/v1/me/notifications/recent", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.NotContains(t, string(env.Data), "interview")
	assert.Zero(t, hits.Load())

	status, env = call(t, app, "GET", "/api/v1/me/notifications/recent", signedToken(t, "2", time.Now().Add(time.Hour)), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "B's update")
	assert.NotContains(t, string(env.Data), "interview")
}
