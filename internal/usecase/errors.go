package usecase

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotCandidate   = errors.New("only candidates can do this")
	ErrAlreadyApplied = errors.New("You have already applied for this job!")
	ErrCVRequired     = errors.New("Please select a CV to submit")
	ErrInternal       = errors.New("internal error")
)
