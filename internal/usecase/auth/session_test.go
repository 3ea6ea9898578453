package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/infrastructure/tokenstore"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
)

type fakeBackend struct {
	srv *httptest.Server

	mu          sync.Mutex
	lastAuth    string
	meCalls     atomic.Int32
	logoutCode  int
	refreshCode int
	meCode      int
	registered  atomic.Int32
	accessToken string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{logoutCode: http.StatusOK, refreshCode: http.StatusOK, meCode: http.StatusOK, accessToken: "at-1"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req user.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		writeJSON(w, user.AuthResponse{AccessToken: fb.accessToken, RefreshToken: "rt-1", Account: user.User{ID: 7, Email: req.Email, Role: user.RoleCandidate}})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(fb.logoutCode)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if fb.refreshCode != http.StatusOK {
			w.WriteHeader(fb.refreshCode)
			return
		}
		writeJSON(w, user.AuthResponse{AccessToken: "at-2", RefreshToken: "rt-2"})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		fb.registered.Add(1)
		writeJSON(w, map[string]string{"message": "check your inbox"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		fb.meCalls.Add(1)
		if fb.meCode != http.StatusOK {
			w.WriteHeader(fb.meCode)
			return
		}
		writeJSON(w, user.User{ID: 7, Email: "me@example.com"})
	})
	mux.HandleFunc("GET /api/echo", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.lastAuth = r.Header.Get("Authorization")
		fb.mu.Unlock()
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) auth() string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.lastAuth
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newSession(t *testing.T, fb *fakeBackend, store tokenstore.Store, logger *log.Logger) (*Session, *httpapi.Client) {
	t.Helper()
	client := httpapi.NewClient(fb.srv.URL+"/api", time.Second, nil)
	return NewSession(repository.NewHTTPAuthRepository(client), store, client, logger), client
}

func TestSession_LoginAttachesHeaderAndLogoutClears(t *testing.T) {
	fb := newFakeBackend(t)
	store := tokenstore.NewMemoryStore()
	s, client := newSession(t, fb, store, nil)
	ctx := context.Background()

	u, err := s.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, "7", s.UserID())

	require.NoError(t, client.Get(ctx, "/echo", nil, nil))
	assert.Equal(t, "Bearer at-1", fb.auth())

	stored, _ := store.Load(ctx)
	assert.Equal(t, tokenstore.Tokens{AccessToken: "at-1", RefreshToken: "rt-1"}, stored)

	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.Snapshot().User)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)

	require.NoError(t, client.Get(ctx, "/echo", nil, nil))
	assert.Empty(t, fb.auth())

	stored, _ = store.Load(ctx)
	assert.True(t, stored.Empty())
}

func TestSession_LoginFailurePropagates(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newSession(t, fb, nil, nil)

	_, err := s.Login(context.Background(), "me@example.com", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, "Bad credentials", httpapi.MessageOf(err, ""))
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.False(t, s.Loading())
}

func TestSession_LogoutServerErrors(t *testing.T) {
	for _, tc := range []struct {
		code   int
		logged bool
	}{
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusInternalServerError, true},
	} {
		fb := newFakeBackend(t)
		fb.logoutCode = tc.code

		var buf bytes.Buffer
		s, _ := newSession(t, fb, nil, log.New(&buf, "", 0))
		ctx := context.Background()

		_, err := s.Login(ctx, "me@example.com", "secret1")
		require.NoError(t, err)
		require.NoError(t, s.Logout(ctx))

		assert.Nil(t, s.Snapshot().User, "status %d", tc.code)
		assert.Empty(t, s.AccessToken(), "status %d", tc.code)
		assert.Equal(t, tc.logged, bytes.Contains(buf.Bytes(), []byte("[Session] logout error")), "status %d", tc.code)
	}
}

func TestSession_RegisterDoesNotLogIn(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newSession(t, fb, nil, nil)
	ctx := context.Background()

	msg, err := s.Register(ctx, user.RegisterRequest{Username: "me", Email: "me@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "check your inbox", msg)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)

	_, err = s.Register(ctx, user.RegisterRequest{Username: "me", Email: "nope", Password: "secret1"})
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.Equal(t, int32(1), fb.registered.Load())
}

func TestSession_RestoreRunsOnce(t *testing.T) {
	fb := newFakeBackend(t)
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), tokenstore.Tokens{AccessToken: "at-1", RefreshToken: "rt-1"}))
	s, _ := newSession(t, fb, store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Restore(context.Background())
		}()
	}
	wg.Wait()
	s.Restore(context.Background())

	assert.Equal(t, int32(1), fb.meCalls.Load())
	assert.True(t, s.Snapshot().Authenticated())
	require.NoError(t, s.Wait(context.Background()))
}

func TestSession_RestoreFailureClearsStorage(t *testing.T) {
	fb := newFakeBackend(t)
	fb.meCode = http.StatusUnauthorized
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), tokenstore.Tokens{AccessToken: "stale", RefreshToken: "rt"}))
	s, client := newSession(t, fb, store, nil)

	s.Restore(context.Background())

	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, client.Token())
	stored, _ := store.Load(context.Background())
	assert.True(t, stored.Empty())
}

func TestSession_RestoreWithoutTokensSkipsBackend(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newSession(t, fb, nil, nil)

	select {
	case <-s.Ready():
		t.Fatalf("ready before restore")
	default:
	}
	s.Restore(context.Background())
	<-s.Ready()
	assert.Equal(t, int32(0), fb.meCalls.Load())
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
}

func TestSession_RefreshFailureLogsOut(t *testing.T) {
	fb := newFakeBackend(t)
	fb.refreshCode = http.StatusUnauthorized
	s, client := newSession(t, fb, nil, nil)
	ctx := context.Background()

	_, err := s.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)

	err = s.RefreshToken(ctx)
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	assert.Empty(t, client.Token())
}

func TestSession_RefreshSwapsTokens(t *testing.T) {
	fb := newFakeBackend(t)
	store := tokenstore.NewMemoryStore()
	s, client := newSession(t, fb, store, nil)
	ctx := context.Background()

	_, err := s.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.RefreshToken(ctx))

	assert.Equal(t, "at-2", client.Token())
	stored, _ := store.Load(ctx)
	assert.Equal(t, "rt-2", stored.RefreshToken)
	assert.True(t, s.Snapshot().Authenticated())
}

func TestSession_EnsureFresh(t *testing.T) {
	fb := newFakeBackend(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(now.Add(30 * time.Second)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	fb.accessToken = tok

	s, client := newSession(t, fb, nil, nil)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	assert.ErrorIs(t, s.EnsureFresh(ctx, time.Minute), ErrNotAuthenticated)

	_, err = s.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.EnsureFresh(ctx, 10*time.Second))
	assert.Equal(t, tok, client.Token())

	require.NoError(t, s.EnsureFresh(ctx, time.Minute))
	assert.Equal(t, "at-2", client.Token())
}

func TestSession_OnChange(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newSession(t, fb, nil, nil)

	var mu sync.Mutex
	var states []State
	cancel := s.OnChange(func(snap Snapshot) {
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	})

	_, err := s.Login(context.Background(), "me@example.com", "secret1")
	require.NoError(t, err)
	cancel()

	mu.Lock()
	seen := len(states)
	assert.Contains(t, states, StateAuthenticated)
	mu.Unlock()

	require.NoError(t, s.Logout(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, states, seen)
}

func TestSession_PasswordFlowsValidateFirst(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newSession(t, fb, nil, nil)
	ctx := context.Background()

	_, err := s.ResetPassword(ctx, "tok", "abcdef", "abcdeX")
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = s.ChangePassword(ctx, "old", "abcdef", "abcdef")
	assert.True(t, errors.Is(err, ErrNotAuthenticated))

	_, err = s.ForgotPassword(ctx, "not-an-email")
	assert.ErrorIs(t, err, validation.ErrInvalid)
}
