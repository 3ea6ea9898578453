package jwt

import (
	"errors"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims holds the access-token fields the client cares about. The backend
// signs the token; the client never verifies it, it only reads the claims.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	jwtlib.RegisteredClaims
}

// Inspect decodes token without verifying its signature.
func Inspect(token string) (Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Claims{}, ErrTokenInvalid
	}

	var c Claims
	p := jwtlib.NewParser()
	if _, _, err := p.ParseUnverified(token, &c); err != nil {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

// ExpiresAt is the zero time when the token carries no exp claim.
func ExpiresAt(token string) (time.Time, error) {
	c, err := Inspect(token)
	if err != nil {
		return time.Time{}, err
	}
	if c.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return c.ExpiresAt.Time, nil
}

// ExpiresWithin reports whether token expires before now+skew. Tokens without
// an exp claim never expire; unreadable tokens count as expired.
func ExpiresWithin(token string, skew time.Duration, now time.Time) (bool, error) {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true, err
	}
	if exp.IsZero() {
		return false, nil
	}
	return !now.Add(skew).Before(exp), nil
}

// Account reads who the token belongs to. The backend puts either the
// numeric account id or the email in sub; id is 0 in the latter case.
func (c Claims) Account() (id int64, email string) {
	email = c.Email
	if n, err := strconv.ParseInt(strings.TrimSpace(c.Subject), 10, 64); err == nil {
		return n, email
	}
	if email == "" {
		email = c.Subject
	}
	return 0, email
}
