package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/pkg/response"
	"jobnest/internal/pkg/validation"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// ErrorMiddleware turns handler errors and panics into the response envelope.
// Errors a handler did not map itself are classified by origin: validation
// failures, backend replies, and deadlines.
type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("[HTTP] panic recovered path=%s err=%v", c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			rid, _ := c.Locals(CtxRequestIDKey).(string)
			m.logger.Printf("[HTTP] request failed rid=%s method=%s path=%s status=%d err=%v", rid, c.Method(), c.Path(), status, err)
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		if status >= 500 || appErr.Message == "" {
			return status, response.DefaultMessage(status), nil
		}
		return status, appErr.Message, appErr.Data
	}

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return fiber.StatusBadRequest, vErr.Message, fiber.Map{"field": vErr.Field}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout, response.MessageGatewayTimeout, nil
	}

	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, httpapi.MessageOf(err, response.DefaultMessage(apiErr.Status)), nil
		}
		return fiber.StatusBadGateway, response.MessageBadGateway, nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
