package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"jobnest/internal/infrastructure/httpapi"
)

const CtxRequestIDKey = "request_id"

// AccessLogMiddleware tags each gateway request with an id, hands that id to
// the backend calls it triggers and writes one access line when it finishes.
type AccessLogMiddleware struct {
	logger *log.Logger
	quiet  map[string]bool
}

// NewAccessLogMiddleware logs every path except the quiet ones, which are
// only logged when they fail.
func NewAccessLogMiddleware(logger *log.Logger, quiet ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	q := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		q[p] = true
	}
	return &AccessLogMiddleware{logger: logger, quiet: q}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)
		c.SetContext(httpapi.ContextWithRequestID(c.Context(), rid))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = normalizeError(err)
		}
		if m.quiet[c.Path()] && status < 400 {
			return err
		}

		who := "-"
		if _, claims, ok := Bearer(c); ok && claims.Subject != "" {
			who = claims.Subject
		}

		m.logger.Printf(
			"[HTTP] access rid=%s ip=%s method=%s path=%s status=%d latency=%s user=%s resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), who,
			len(c.Response().Body()), c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}
