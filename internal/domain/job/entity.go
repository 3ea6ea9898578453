package job

import (
	"strings"

	"jobnest/internal/domain"
)

type Job struct {
	ID              int64        `json:"id"`
	EmployerID      int64        `json:"employerId,omitempty"`
	EmployerName    string       `json:"employerName,omitempty"`
	CompanyID       int64        `json:"companyId,omitempty"`
	CompanyName     string       `json:"companyName,omitempty"`
	CompanyLogo     string       `json:"companyLogo,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	CategoryID      int64        `json:"categoryId,omitempty"`
	CategoryName    string       `json:"categoryName,omitempty"`
	CategorySlug    string       `json:"categorySlug,omitempty"`
	Location        string       `json:"location"`
	Type            string       `json:"type"`
	MinSalary       float64      `json:"minSalary,omitempty"`
	MaxSalary       float64      `json:"maxSalary,omitempty"`
	Experience      string       `json:"experience,omitempty"`
	ExperienceLevel string       `json:"experienceLevel,omitempty"`
	Education       string       `json:"education,omitempty"`
	Skills          string       `json:"skills,omitempty"`
	IsUrgent        bool         `json:"isUrgent"`
	Status          string       `json:"status,omitempty"`
	PostedAt        *domain.Time `json:"postedAt,omitempty"`
	UpdatedAt       *domain.Time `json:"updatedAt,omitempty"`
	ExpiresAt       *domain.Time `json:"expiresAt,omitempty"`
	ViewCount       int64        `json:"viewCount,omitempty"`
	IsSaved         bool         `json:"isSaved,omitempty"`
}

// SkillList splits the comma-joined skills string.
func (j Job) SkillList() []string {
	if strings.TrimSpace(j.Skills) == "" {
		return nil
	}
	parts := strings.Split(j.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

type SavedJob struct {
	ID      int64        `json:"id"`
	JobID   int64        `json:"jobId"`
	Job     *Job         `json:"job,omitempty"`
	SavedAt *domain.Time `json:"savedAt,omitempty"`
}

type ViewedJob struct {
	ID       int64        `json:"id"`
	JobID    int64        `json:"jobId"`
	Job      *Job         `json:"job,omitempty"`
	ViewedAt *domain.Time `json:"viewedAt,omitempty"`
}

type CategoryStats struct {
	CategoryName  string `json:"categoryName"`
	OpenPositions int64  `json:"openPositions"`
}

type SearchParams struct {
	Keyword  string
	Location string
	Category string
	Type     string
	Page     int
	Size     int
}
