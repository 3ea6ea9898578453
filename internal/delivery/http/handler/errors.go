package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/pkg/response"
	"jobnest/internal/pkg/validation"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
)

// mapUsecaseError turns flow and backend errors into gateway responses.
// Backend 4xx pass through with their message; 5xx and transport failures
// become 502.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var vErr *validation.Error
	var rejected *repository.RejectedError
	switch {
	case errors.As(err, &vErr):
		return middleware.NewAppError(fiber.StatusBadRequest, vErr.Error(), fiber.Map{"field": vErr.Field}, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotCandidate):
		return middleware.NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrAlreadyApplied), errors.Is(err, usecase.ErrCannotWithdraw):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrCVRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.As(err, &rejected):
		status := fiber.StatusConflict
		if errors.Is(err, repository.ErrApplyForbidden) {
			status = fiber.StatusForbidden
		}
		return middleware.NewAppError(status, rejected.Message, nil, err)
	case isNotFound(err):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return middleware.NewAppError(fiber.StatusGatewayTimeout, "Gateway timeout", nil, err)
	}

	if st := httpapi.StatusOf(err); st >= 400 && st < 500 {
		return middleware.NewAppError(st, httpapi.MessageOf(err, http.StatusText(st)), nil, err)
	}
	return middleware.NewAppError(fiber.StatusBadGateway, response.MessageBadGateway, nil, err)
}

func isNotFound(err error) bool {
	for _, target := range []error{
		repository.ErrJobNotFound,
		repository.ErrApplicationNotFound,
		repository.ErrCVNotFound,
		repository.ErrProfileNotFound,
		repository.ErrNotificationNotFound,
		repository.ErrPostNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseIDParam(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}
