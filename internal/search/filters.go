package search

import (
	"errors"
	"strings"

	"jobnest/internal/domain/job"
)

// FilterCategory names one checkbox group of the listing.
type FilterCategory string

const (
	CategoryEmployment      FilterCategory = "type_of_employment"
	CategoryJobCategory     FilterCategory = "category"
	CategoryExperienceLevel FilterCategory = "experience_level"
	CategorySalary          FilterCategory = "salary_range"
	CategoryExperience      FilterCategory = "experience"
	CategoryEducation       FilterCategory = "education"
)

var ErrUnknownCategory = errors.New("unknown filter category")

// FilterGroup is one checkbox group and its options.
type FilterGroup struct {
	Category FilterCategory `json:"name"`
	Label    string         `json:"label"`
	Values   []string       `json:"filters"`
}

var catalog = []FilterGroup{
	{
		Category: CategoryEmployment,
		Label:    "Type of Employment",
		Values:   []string{"Full Time", "Part Time", "Internship", "Freelance", "Remote", "Co Founder", "Contract"},
	},
	{
		Category: CategoryJobCategory,
		Label:    "Category",
		Values: []string{
			"Accounting / Finance", "Marketing", "Design", "Development",
			"Project Management", "Customer Service", "Health and Care", "Automative Jobs",
		},
	},
	{
		Category: CategoryExperienceLevel,
		Label:    "Experience Level",
		Values:   []string{"Senior Level", "Entry Level", "Mid Level", "Student Level", "Directors"},
	},
	{
		Category: CategorySalary,
		Label:    "Salary Range",
		Values:   []string{SalaryBand40to55, SalaryBand55to85, SalaryBand85to115, SalaryBand115to145, SalaryBand145to175},
	},
	{
		Category: CategoryExperience,
		Label:    "Experience",
		Values:   []string{"Under 1 Year", "1 - 2 Years", "2 - 6 Years", "Over 6 Years"},
	},
	{
		Category: CategoryEducation,
		Label:    "Education",
		Values: []string{
			"Graduated High School", "Vocational Course", "Associate Studies",
			"Bachelor's Degree", "Masters Degree", "PHD",
		},
	},
}

// Catalog returns the fixed filter groups in display order. The result is a
// copy and may be modified by the caller.
func Catalog() []FilterGroup {
	out := make([]FilterGroup, len(catalog))
	for i, f := range catalog {
		f.Values = append([]string(nil), f.Values...)
		out[i] = f
	}
	return out
}

func Categories() []FilterCategory {
	out := make([]FilterCategory, len(catalog))
	for i, f := range catalog {
		out[i] = f.Category
	}
	return out
}

func (c FilterCategory) Valid() bool {
	for _, f := range catalog {
		if f.Category == c {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (FilterCategory, error) {
	c := FilterCategory(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// employmentLabels maps backend employment type codes, lowercased with
// separators removed, to their checkbox labels.
var employmentLabels = map[string]string{
	"fulltime":   "Full Time",
	"parttime":   "Part Time",
	"remote":     "Remote",
	"contract":   "Contract",
	"freelance":  "Freelance",
	"internship": "Internship",
	"cofounder":  "Co Founder",
}

var employmentSeparators = strings.NewReplacer(" ", "", "_", "", "-", "")

// EmploymentLabel returns the display label for a type code, or the code
// itself when it is not a known one.
func EmploymentLabel(code string) string {
	if code == "" {
		return ""
	}
	if l, ok := employmentLabels[employmentSeparators.Replace(strings.ToLower(strings.TrimSpace(code)))]; ok {
		return l
	}
	return code
}

// ValueFor returns the filter value job carries for category. ok is false
// when the job has no value there, which never matches a selection.
func ValueFor(j job.Job, c FilterCategory) (string, bool) {
	var v string
	switch c {
	case CategoryJobCategory:
		v = j.CategoryName
	case CategoryEmployment:
		v = EmploymentLabel(j.Type)
	case CategoryExperienceLevel:
		v = j.ExperienceLevel
	case CategorySalary:
		return SalaryBucket(j.MinSalary, j.MaxSalary)
	case CategoryExperience:
		v = j.Experience
	case CategoryEducation:
		v = j.Education
	}
	return v, v != ""
}
