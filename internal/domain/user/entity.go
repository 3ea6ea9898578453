package user

import "jobnest/internal/domain"

type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

type User struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	AvatarURL   string       `json:"avatarUrl,omitempty"`
	Status      Status       `json:"status"`
	LastLoginAt *domain.Time `json:"last_login_at,omitempty"`
	CreatedAt   *domain.Time `json:"created_at,omitempty"`
	UpdatedAt   *domain.Time `json:"updated_at,omitempty"`
}

func (u User) IsCandidate() bool {
	return u.Role == RoleCandidate
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Account      User   `json:"account"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

type GoogleVerifyRequest struct {
	Credential string `json:"credential"`
	Role       Role   `json:"role,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
