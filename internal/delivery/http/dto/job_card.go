package dto

import (
	"time"

	"jobnest/internal/domain/job"
	"jobnest/internal/search"
)

// JobCard is one job as the listing cards render it.
type JobCard struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	CompanyLogo string   `json:"company_logo,omitempty"`
	Location    string   `json:"location"`
	Employment  string   `json:"employment"`
	SalaryRange string   `json:"salary_range,omitempty"`
	Skills      []string `json:"skills"`
	IsUrgent    bool     `json:"is_urgent"`
	PostedDate  string   `json:"posted_date,omitempty"`
}

func NewJobCard(j job.Job) JobCard {
	salary, _ := search.SalaryBucket(j.MinSalary, j.MaxSalary)
	skills := j.SkillList()
	if skills == nil {
		skills = []string{}
	}
	posted := ""
	if j.PostedAt != nil && !j.PostedAt.IsZero() {
		posted = j.PostedAt.UTC().Format(time.RFC3339)
	}
	return JobCard{
		ID:          j.ID,
		Title:       j.Title,
		CompanyName: j.CompanyName,
		CompanyLogo: j.CompanyLogo,
		Location:    j.Location,
		Employment:  search.EmploymentLabel(j.Type),
		SalaryRange: salary,
		Skills:      skills,
		IsUrgent:    j.IsUrgent,
		PostedDate:  posted,
	}
}

func NewJobCards(jobs []job.Job) []JobCard {
	out := make([]JobCard, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobCard(j))
	}
	return out
}
