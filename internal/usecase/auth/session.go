package auth

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/infrastructure/tokenstore"
	"jobnest/internal/pkg/jwt"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token")
)

type State int

const (
	StateAnonymous State = iota
	StateRestoring
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "anonymous"
	}
}

// Snapshot is a consistent copy of the session at one instant.
type Snapshot struct {
	State   State
	User    *user.User
	Err     error
	Loading bool
}

func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// TokenHolder is the HTTP client's default-header slot.
type TokenHolder interface {
	SetToken(token string)
	ClearToken()
}

// Session is the single source of truth for who is logged in. Create one per
// process and hand it to every flow that needs the current user.
type Session struct {
	auth   repository.AuthRepository
	store  tokenstore.Store
	api    TokenHolder
	logger *log.Logger
	now    func() time.Time

	mu        sync.RWMutex
	state     State
	user      *user.User
	err       error
	loading   int
	tokens    tokenstore.Tokens
	listeners map[int]func(Snapshot)
	nextID    int

	restoreOnce sync.Once
	ready       chan struct{}
}

func NewSession(auth repository.AuthRepository, store tokenstore.Store, api TokenHolder, logger *log.Logger) *Session {
	if store == nil {
		store = tokenstore.NewMemoryStore()
	}
	return &Session{
		auth:      auth,
		store:     store,
		api:       api,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]func(Snapshot)),
		ready:     make(chan struct{}),
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var u *user.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return Snapshot{State: s.state, User: u, Err: s.err, Loading: s.loading > 0}
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *Session) User() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return user.User{}, false
	}
	return *s.user, true
}

// UserID is the topic identity for live notifications, empty when logged out.
func (s *Session) UserID() string {
	u, ok := s.User()
	if !ok || u.ID == 0 {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

// OnChange registers fn for every state change. The returned func removes it.
func (s *Session) OnChange(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies listeners after releasing it.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, l := range s.listeners {
		fns = append(fns, l)
	}
	s.mu.Unlock()

	for _, l := range fns {
		l(snap)
	}
}

func (s *Session) begin() func() {
	s.update(func() { s.loading++ })
	return func() { s.update(func() { s.loading-- }) }
}

// Ready is closed once Restore has finished.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restore loads persisted tokens and the current user. It runs at most once
// per Session; later calls wait for the first and return.
func (s *Session) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		defer close(s.ready)
		s.restore(ctx)
	})
	<-s.ready
}

func (s *Session) restore(ctx context.Context) {
	s.update(func() { s.state = StateRestoring; s.err = nil })

	tokens, err := s.store.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Session] restore load error err=%v", err)
		}
		s.clear(ctx, StateAnonymous, nil)
		return
	}
	if tokens.Empty() {
		s.update(func() { s.state = StateAnonymous })
		return
	}

	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()
	if s.api != nil {
		s.api.SetToken(tokens.AccessToken)
	}

	u, err := s.auth.Me(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Session] restore failed status=%d err=%v", httpapi.StatusOf(err), err)
		}
		state := StateAnonymous
		var cause error
		if !httpapi.IsAuthAbsent(err) {
			state, cause = StateError, err
		}
		s.clear(ctx, state, cause)
		return
	}

	s.update(func() {
		s.user = &u
		s.state = StateAuthenticated
	})
}

// Login exchanges credentials for tokens, persists them and attaches the
// access token to every later request.
func (s *Session) Login(ctx context.Context, email, password string) (user.User, error) {
	req := user.LoginRequest{Email: email, Password: password}
	if err := validation.Login(req); err != nil {
		return user.User{}, err
	}
	defer s.begin()()

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	return s.install(ctx, resp), nil
}

// LoginWithGoogle verifies a Google ID token with the backend.
func (s *Session) LoginWithGoogle(ctx context.Context, credential string, role user.Role) (user.User, error) {
	if err := validation.Required("credential", credential); err != nil {
		return user.User{}, err
	}
	defer s.begin()()

	resp, err := s.auth.GoogleVerify(ctx, user.GoogleVerifyRequest{Credential: credential, Role: role})
	if err != nil {
		return user.User{}, err
	}
	return s.install(ctx, resp), nil
}

func (s *Session) install(ctx context.Context, resp user.AuthResponse) user.User {
	tokens := tokenstore.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.store.Save(ctx, tokens); err != nil && s.logger != nil {
		s.logger.Printf("[Session] token save error err=%v", err)
	}
	if s.api != nil {
		s.api.SetToken(resp.AccessToken)
	}

	u := resp.Account
	s.update(func() {
		s.tokens = tokens
		s.user = &u
		s.state = StateAuthenticated
		s.err = nil
	})
	return u
}

// Logout revokes the refresh token on a best-effort basis and always clears
// the local session.
func (s *Session) Logout(ctx context.Context) error {
	defer s.begin()()

	s.mu.RLock()
	refresh := s.tokens.RefreshToken
	s.mu.RUnlock()

	if refresh != "" {
		if err := s.auth.Logout(ctx, refresh); err != nil && !httpapi.IsAuthAbsent(err) {
			if s.logger != nil {
				s.logger.Printf("[Session] logout error status=%d err=%v", httpapi.StatusOf(err), err)
			}
		}
	}
	return s.clear(ctx, StateAnonymous, nil)
}

func (s *Session) clear(ctx context.Context, state State, cause error) error {
	err := s.store.Clear(ctx)
	if err != nil && s.logger != nil {
		s.logger.Printf("[Session] token clear error err=%v", err)
	}
	if s.api != nil {
		s.api.ClearToken()
	}
	s.update(func() {
		s.tokens = tokenstore.Tokens{}
		s.user = nil
		s.state = state
		s.err = cause
	})
	return err
}

// Register creates an unverified account. It never logs in; the account has
// to be verified by email first.
func (s *Session) Register(ctx context.Context, req user.RegisterRequest) (string, error) {
	if err := validation.Register(req); err != nil {
		return "", err
	}
	if req.Role == "" {
		req.Role = user.RoleCandidate
	}
	defer s.begin()()
	return s.auth.Register(ctx, req)
}

// RefreshToken swaps the stored refresh token for a new pair. Any failure
// ends the session.
func (s *Session) RefreshToken(ctx context.Context) error {
	s.mu.RLock()
	current := s.tokens
	s.mu.RUnlock()

	if current.RefreshToken == "" {
		_ = s.Logout(ctx)
		return ErrNoRefreshToken
	}

	defer s.begin()()
	resp, err := s.auth.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Session] refresh failed status=%d err=%v", httpapi.StatusOf(err), err)
		}
		_ = s.Logout(ctx)
		return err
	}

	next := tokenstore.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}
	if err := s.store.Save(ctx, next); err != nil && s.logger != nil {
		s.logger.Printf("[Session] token save error err=%v", err)
	}
	if s.api != nil {
		s.api.SetToken(next.AccessToken)
	}

	s.update(func() {
		s.tokens = next
		if resp.Account.ID != 0 {
			u := resp.Account
			s.user = &u
		}
	})
	return nil
}

// EnsureFresh refreshes ahead of time when the access token expires within
// skew.
func (s *Session) EnsureFresh(ctx context.Context, skew time.Duration) error {
	token := s.AccessToken()
	if token == "" {
		return ErrNotAuthenticated
	}
	soon, err := jwt.ExpiresWithin(token, skew, s.now())
	if err != nil && s.logger != nil {
		s.logger.Printf("[Session] unreadable access token err=%v", err)
	}
	if !soon {
		return nil
	}
	return s.RefreshToken(ctx)
}

// ReloadUser refetches the current user, typically after a profile change.
// Tokens are left alone.
func (s *Session) ReloadUser(ctx context.Context) (user.User, error) {
	if s.AccessToken() == "" {
		return user.User{}, ErrNotAuthenticated
	}
	u, err := s.auth.Me(ctx)
	if err != nil {
		return user.User{}, err
	}
	s.update(func() {
		s.user = &u
		s.state = StateAuthenticated
	})
	return u, nil
}

func (s *Session) VerifyEmail(ctx context.Context, token string) (string, error) {
	if err := validation.Required("token", token); err != nil {
		return "", err
	}
	return s.auth.VerifyEmail(ctx, token)
}

func (s *Session) ResendVerification(ctx context.Context, email string) (string, error) {
	if err := validation.Email(email); err != nil {
		return "", err
	}
	return s.auth.ResendVerification(ctx, email)
}

func (s *Session) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := validation.Email(email); err != nil {
		return "", err
	}
	return s.auth.ForgotPassword(ctx, email)
}

func (s *Session) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	if err := validation.Required("token", token); err != nil {
		return "", err
	}
	if err := validation.NewPassword(password, confirm); err != nil {
		return "", err
	}
	return s.auth.ResetPassword(ctx, user.ResetPasswordRequest{Token: token, NewPassword: password})
}

func (s *Session) ChangePassword(ctx context.Context, oldPassword, password, confirm string) (string, error) {
	if s.AccessToken() == "" {
		return "", ErrNotAuthenticated
	}
	if err := validation.Required("oldPassword", oldPassword); err != nil {
		return "", err
	}
	if err := validation.NewPassword(password, confirm); err != nil {
		return "", err
	}
	return s.auth.ChangePassword(ctx, user.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: password})
}
