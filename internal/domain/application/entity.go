package application

import "jobnest/internal/domain"

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusReviewed    Status = "REVIEWED"
	StatusShortlisted Status = "SHORTLISTED"
	StatusAccepted    Status = "ACCEPTED"
	StatusRejected    Status = "REJECTED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

type Application struct {
	ID             int64        `json:"id"`
	JobID          int64        `json:"jobId"`
	JobTitle       string       `json:"jobTitle"`
	CandidateID    int64        `json:"candidateId"`
	CandidateName  string       `json:"candidateName,omitempty"`
	CandidateEmail string       `json:"candidateEmail,omitempty"`
	CVID           *int64       `json:"cvId,omitempty"`
	CVTitle        string       `json:"cvTitle,omitempty"`
	CVFileName     string       `json:"cvFileName,omitempty"`
	CoverLetter    string       `json:"coverLetter,omitempty"`
	ResumeURL      string       `json:"resumeUrl,omitempty"`
	Status         Status       `json:"status"`
	AppliedAt      *domain.Time `json:"appliedAt,omitempty"`
	ReviewedAt     *domain.Time `json:"reviewedAt,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// CanWithdraw reports whether the candidate may still withdraw; the backend
// only accepts withdrawals while the application is pending.
func (a Application) CanWithdraw() bool {
	return a.Status == StatusPending
}

type Request struct {
	CVID        *int64 `json:"cvId,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
}

// Check is the "have I applied" answer. A withdrawn application may be
// submitted again.
type Check struct {
	HasApplied bool   `json:"hasApplied"`
	Status     Status `json:"status,omitempty"`
}

func (c Check) CanApplyAgain() bool {
	return c.Status == StatusWithdrawn
}
