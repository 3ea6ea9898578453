package repository

import (
	"errors"
	"fmt"
	"net/http"

	"jobnest/internal/infrastructure/httpapi"
)

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrCVNotFound           = errors.New("cv not found")
	ErrProfileNotFound      = errors.New("candidate profile not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPostNotFound         = errors.New("post not found")

	ErrApplyForbidden = errors.New("apply forbidden")
	ErrCVInUse        = errors.New("cv in use")
)

const (
	msgApplyForbidden = "You are not allowed to apply for this job."
	msgCVInUse        = "Once a CV has been submitted, it cannot be deleted."
)

// RejectedError is a backend refusal the user should see explained. It
// matches Reason with errors.Is and unwraps to the transport error.
type RejectedError struct {
	Reason  error
	Message string
	Err     error
}

func (e *RejectedError) Error() string { return e.Message }

func (e *RejectedError) Is(target error) bool { return target == e.Reason }

func (e *RejectedError) Unwrap() error { return e.Err }

func reject(reason error, err error, fallback string) error {
	return &RejectedError{Reason: reason, Message: httpapi.MessageOf(err, fallback), Err: err}
}

// notFound tags a 404 with sentinel and passes every other error through.
func notFound(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	if httpapi.IsNotFound(err) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// message is the {"message": "..."} body most write endpoints answer with.
type message struct {
	Message string `json:"message"`
}

func isClientRejection(err error) bool {
	st := httpapi.StatusOf(err)
	return st >= 400 && st < 500 && st != http.StatusUnauthorized && st != http.StatusNotFound
}
