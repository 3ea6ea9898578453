package search

import (
	"strings"

	"jobnest/internal/domain/job"
)

// Field names accepted by FilterJobsByField. company_location is the name
// the search bar uses for the location box.
const (
	FieldTitle           = "title"
	FieldLocation        = "location"
	FieldCompanyLocation = "company_location"
	FieldCompanyName     = "company_name"
)

func fieldValue(j job.Job, field string) string {
	switch field {
	case FieldTitle:
		return j.Title
	case FieldLocation, FieldCompanyLocation:
		return j.Location
	case FieldCompanyName:
		return j.CompanyName
	default:
		return ""
	}
}

// FilterJobsByField returns exactly the jobs whose field contains q, ignoring
// case only. An empty q yields no suggestions.
func FilterJobsByField(jobs []job.Job, field, q string) []job.Job {
	if q == "" {
		return []job.Job{}
	}
	lq := strings.ToLower(q)
	out := make([]job.Job, 0)
	for _, j := range jobs {
		if strings.Contains(strings.ToLower(fieldValue(j, field)), lq) {
			out = append(out, j)
		}
	}
	return out
}

// Suggest returns up to limit distinct field values for the autocomplete
// dropdown, in first-seen order.
func Suggest(jobs []job.Job, field, q string, limit int) []string {
	matches := FilterJobsByField(jobs, field, q)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, j := range matches {
		v := fieldValue(j, field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
