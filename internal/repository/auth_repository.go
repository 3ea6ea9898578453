package repository

import (
	"context"

	"jobnest/internal/domain/user"
	"jobnest/internal/infrastructure/httpapi"
)

type AuthRepository interface {
	Me(ctx context.Context) (user.User, error)
	Login(ctx context.Context, req user.LoginRequest) (user.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (user.AuthResponse, error)
	Register(ctx context.Context, req user.RegisterRequest) (string, error)
	GoogleVerify(ctx context.Context, req user.GoogleVerifyRequest) (user.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req user.ResetPasswordRequest) (string, error)
	ChangePassword(ctx context.Context, req user.ChangePasswordRequest) (string, error)
}

type HTTPAuthRepository struct {
	api *httpapi.Client
}

func NewHTTPAuthRepository(api *httpapi.Client) *HTTPAuthRepository {
	return &HTTPAuthRepository{api: api}
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *HTTPAuthRepository) Me(ctx context.Context) (user.User, error) {
	var out user.User
	err := r.api.Get(ctx, "/auth/me", nil, &out)
	return out, err
}

func (r *HTTPAuthRepository) Login(ctx context.Context, req user.LoginRequest) (user.AuthResponse, error) {
	var out user.AuthResponse
	err := r.api.Post(ctx, "/auth/login", req, &out)
	return out, err
}

func (r *HTTPAuthRepository) Logout(ctx context.Context, refreshToken string) error {
	return r.api.Post(ctx, "/auth/logout", refreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (r *HTTPAuthRepository) Refresh(ctx context.Context, refreshToken string) (user.AuthResponse, error) {
	var out user.AuthResponse
	err := r.api.Post(ctx, "/auth/refresh", refreshTokenRequest{RefreshToken: refreshToken}, &out)
	return out, err
}

func (r *HTTPAuthRepository) Register(ctx context.Context, req user.RegisterRequest) (string, error) {
	return r.postMessage(ctx, "/auth/register", req)
}

func (r *HTTPAuthRepository) GoogleVerify(ctx context.Context, req user.GoogleVerifyRequest) (user.AuthResponse, error) {
	var out user.AuthResponse
	err := r.api.Post(ctx, "/auth/google/verify", req, &out)
	return out, err
}

func (r *HTTPAuthRepository) VerifyEmail(ctx context.Context, token string) (string, error) {
	return r.postMessage(ctx, "/auth/verify-email", map[string]string{"token": token})
}

func (r *HTTPAuthRepository) ResendVerification(ctx context.Context, email string) (string, error) {
	return r.postMessage(ctx, "/auth/resend-verification", map[string]string{"email": email})
}

func (r *HTTPAuthRepository) ForgotPassword(ctx context.Context, email string) (string, error) {
	return r.postMessage(ctx, "/auth/password/forgot", map[string]string{"email": email})
}

func (r *HTTPAuthRepository) ResetPassword(ctx context.Context, req user.ResetPasswordRequest) (string, error) {
	return r.postMessage(ctx, "/auth/password/reset", req)
}

func (r *HTTPAuthRepository) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) (string, error) {
	return r.postMessage(ctx, "/auth/password/change", req)
}

// postMessage tolerates plain-text and empty bodies, which several auth
// endpoints return instead of JSON.
func (r *HTTPAuthRepository) postMessage(ctx context.Context, path string, body any) (string, error) {
	var out flexibleMessage
	if err := r.api.Post(ctx, path, body, &out); err != nil {
		return "", err
	}
	return string(out), nil
}
