package search

import (
	"errors"
	"fmt"
	"sort"

	"jobnest/internal/domain/job"
)

type SortMode string

const (
	SortRecent      SortMode = "recent"
	SortOldest      SortMode = "oldest"
	SortSalaryHigh  SortMode = "salary_high"
	SortSalaryLow   SortMode = "salary_low"
	SortUrgentFirst SortMode = "urgent_first"
)

var ErrUnknownSort = errors.New("unknown sort mode")

func SortModes() []SortMode {
	return []SortMode{SortRecent, SortOldest, SortSalaryHigh, SortSalaryLow, SortUrgentFirst}
}

// ParseSort maps an empty string to SortRecent.
func ParseSort(s string) (SortMode, error) {
	if s == "" {
		return SortRecent, nil
	}
	for _, m := range SortModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// Sort returns a sorted copy of jobs. Equal keys keep their input order; a
// missing posted date sorts as the epoch and a missing salary as zero.
func Sort(jobs []job.Job, mode SortMode) []job.Job {
	out := make([]job.Job, len(jobs))
	copy(out, jobs)

	var less func(a, b job.Job) bool
	switch mode {
	case SortRecent, "":
		less = func(a, b job.Job) bool { return a.PostedAt.UnixMilli() > b.PostedAt.UnixMilli() }
	case SortOldest:
		less = func(a, b job.Job) bool { return a.PostedAt.UnixMilli() < b.PostedAt.UnixMilli() }
	case SortSalaryHigh:
		less = func(a, b job.Job) bool { return a.MaxSalary > b.MaxSalary }
	case SortSalaryLow:
		less = func(a, b job.Job) bool { return a.MinSalary < b.MinSalary }
	case SortUrgentFirst:
		less = func(a, b job.Job) bool { return a.IsUrgent && !b.IsUrgent }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
