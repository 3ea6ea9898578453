package search

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"jobnest/internal/domain/job"
)

type positions = mapset.Set[int]

// Index precomputes lowercased and folded text and the job positions behind
// every filter value. Build it once per data load; it is read-only afterwards and safe
// for concurrent queries.
type Index struct {
	jobs      []job.Job
	lower     texts
	folded    texts
	all       positions
	values    map[FilterCategory]map[string]positions
}

func NewIndex(jobs []job.Job) *Index {
	idx := &Index{
		jobs:      jobs,
		lower:     newTexts(len(jobs)),
		folded:    newTexts(len(jobs)),
		all:       mapset.NewThreadUnsafeSetWithSize[int](len(jobs)),
		values:    make(map[FilterCategory]map[string]positions, len(catalog)),
	}
	for _, f := range catalog {
		idx.values[f.Category] = make(map[string]positions)
	}

	for i, j := range jobs {
		idx.lower.set(i, j, false)
		idx.folded.set(i, j, true)
		idx.all.Add(i)

		for _, f := range catalog {
			v, ok := ValueFor(j, f.Category)
			if !ok {
				continue
			}
			set, exists := idx.values[f.Category][v]
			if !exists {
				set = mapset.NewThreadUnsafeSet[int]()
				idx.values[f.Category][v] = set
			}
			set.Add(i)
		}
	}
	return idx
}

// texts holds the normalized searchable fields by job position.
type texts struct {
	titles    []string
	companies []string
	locations []string
}

func newTexts(n int) texts {
	return texts{titles: make([]string, n), companies: make([]string, n), locations: make([]string, n)}
}

func (t texts) set(i int, j job.Job, folded bool) {
	t.titles[i] = normalize(j.Title, folded)
	t.companies[i] = normalize(j.CompanyName, folded)
	t.locations[i] = normalize(j.Location, folded)
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.jobs)
}

func (idx *Index) Jobs() []job.Job {
	if idx == nil {
		return nil
	}
	return idx.jobs
}

func (idx *Index) textMatches(q Query) positions {
	title, location := normalize(q.Title, q.IgnoreDiacritics), normalize(q.Location, q.IgnoreDiacritics)
	if title == "" && location == "" {
		return idx.all
	}
	tx := idx.lower
	if q.IgnoreDiacritics {
		tx = idx.folded
	}
	out := mapset.NewThreadUnsafeSet[int]()
	for i := range idx.jobs {
		if title != "" && !containsNormalized(tx.titles[i], title) && !containsNormalized(tx.companies[i], title) {
			continue
		}
		if !containsNormalized(tx.locations[i], location) {
			continue
		}
		out.Add(i)
	}
	return out
}

// selection is the union of the positions behind every selected value of c,
// or nil when c has no active selection.
func (idx *Index) selection(c FilterCategory, vals []string) positions {
	if len(vals) == 0 {
		return nil
	}
	out := mapset.NewThreadUnsafeSet[int]()
	for _, v := range vals {
		if set, ok := idx.values[c][v]; ok {
			out = out.Union(set)
		}
	}
	return out
}

func (idx *Index) matching(q Query, skip FilterCategory) positions {
	out := idx.textMatches(q)
	for c, vals := range q.Selected {
		if c == skip {
			continue
		}
		sel := idx.selection(c, vals)
		if sel == nil {
			continue
		}
		out = out.Intersect(sel)
	}
	return out
}

// Filter returns the jobs matching q in input order.
func (idx *Index) Filter(q Query) []job.Job {
	if idx == nil {
		return nil
	}
	pos := idx.matching(q, "").ToSlice()
	slices.Sort(pos)
	out := make([]job.Job, 0, len(pos))
	for _, i := range pos {
		out = append(out, idx.jobs[i])
	}
	return out
}

// Counts yields the same numbers as CountMatches.
func (idx *Index) Counts(q Query) Counts {
	out := newCounts()
	if idx == nil {
		return out
	}
	for _, f := range catalog {
		base := idx.matching(q, f.Category)
		bucket := out[f.Category]
		for _, v := range f.Values {
			set, ok := idx.values[f.Category][v]
			if !ok {
				continue
			}
			bucket[v] = base.Intersect(set).Cardinality()
		}
	}
	return out
}
