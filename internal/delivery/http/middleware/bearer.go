package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/pkg/jwt"
)

const (
	CtxTokenKey  = "bearer_token"
	CtxClaimsKey = "claims"
)

var timeNow = time.Now

// BearerMiddleware reads the caller's access token so handlers can forward
// it to the backend. Anonymous requests pass through; signatures are left to
// the backend.
type BearerMiddleware struct{}

func NewBearerMiddleware() *BearerMiddleware {
	return &BearerMiddleware{}
}

func (m *BearerMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}

		claims, err := jwt.Inspect(token)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}
		if claims.ExpiresAt != nil && !claims.ExpiresAt.After(timeNow()) {
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, jwt.ErrTokenExpired)
		}

		c.Locals(CtxTokenKey, token)
		c.Locals(CtxClaimsKey, claims)
		return c.Next()
	}
}

// Bearer returns the token and claims stored by the middleware, if any.
func Bearer(c fiber.Ctx) (string, jwt.Claims, bool) {
	token, ok := c.Locals(CtxTokenKey).(string)
	if !ok || token == "" {
		return "", jwt.Claims{}, false
	}
	claims, _ := c.Locals(CtxClaimsKey).(jwt.Claims)
	return token, claims, true
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
