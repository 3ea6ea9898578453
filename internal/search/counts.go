package search

import "jobnest/internal/domain/job"

// Counts holds, per category and value, how many jobs would match if that
// value were the category's only selection.
type Counts map[FilterCategory]map[string]int

func (c Counts) Get(cat FilterCategory, value string) int {
	if c == nil {
		return 0
	}
	return c[cat][value]
}

func newCounts() Counts {
	out := make(Counts, len(catalog))
	for _, f := range catalog {
		m := make(map[string]int, len(f.Values))
		for _, v := range f.Values {
			m[v] = 0
		}
		out[f.Category] = m
	}
	return out
}

// CountMatches computes Counts by scanning jobs once per category. Every
// catalog value is present in the result, zero or not.
func CountMatches(jobs []job.Job, q Query) Counts {
	m := q.matcher()
	out := newCounts()

	text := make([]bool, len(jobs))
	for i, j := range jobs {
		text[i] = m.matchText(j)
	}

	for _, f := range catalog {
		bucket := out[f.Category]
		for i, j := range jobs {
			if !text[i] || !m.matchFilters(j, f.Category) {
				continue
			}
			v, ok := ValueFor(j, f.Category)
			if !ok {
				continue
			}
			if _, known := bucket[v]; known {
				bucket[v]++
			}
		}
	}
	return out
}
