package search

import (
	"errors"
	"fmt"
	"slices"

	"jobnest/internal/domain/job"
)

const DefaultPageSize = 4

var ErrInvalidQuery = errors.New("invalid listing query")

// Query is everything the listing view lets a user change.
type Query struct {
	Title    string
	Location string
	Selected map[FilterCategory][]string
	Sort     SortMode
	Offset   int
	PageSize int
	// IgnoreDiacritics makes the text queries match "Hà Nội" for "ha noi".
	// Off by default: matching is a plain case-insensitive contains.
	IgnoreDiacritics bool
}

func (q Query) Validate() error {
	for c := range q.Selected {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
	}
	if _, err := ParseSort(string(q.Sort)); err != nil {
		return err
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset=%d", ErrInvalidQuery, q.Offset)
	}
	if q.PageSize < 0 {
		return fmt.Errorf("%w: page_size=%d", ErrInvalidQuery, q.PageSize)
	}
	return nil
}

func (q Query) pageSize() int {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}
	return q.PageSize
}

// Select returns a copy of q with value toggled on or off under c and the
// offset reset to the first page.
func (q Query) Select(c FilterCategory, value string, on bool) Query {
	next := make(map[FilterCategory][]string, len(q.Selected)+1)
	for k, v := range q.Selected {
		next[k] = append([]string(nil), v...)
	}
	vals := next[c]
	if on {
		if !slices.Contains(vals, value) {
			vals = append(vals, value)
		}
	} else {
		vals = slices.DeleteFunc(vals, func(v string) bool { return v == value })
	}
	next[c] = vals

	q.Selected = next
	q.Offset = 0
	return q
}

// Reset clears the text queries and every selection.
func (q Query) Reset() Query {
	q.Title = ""
	q.Location = ""
	q.Selected = nil
	q.Offset = 0
	return q
}

type matcher struct {
	title    string
	location string
	folded   bool
	selected map[FilterCategory][]string
}

func (q Query) matcher() matcher {
	f := q.IgnoreDiacritics
	return matcher{title: normalize(q.Title, f), location: normalize(q.Location, f), folded: f, selected: q.Selected}
}

func (m matcher) matchText(j job.Job) bool {
	if m.title != "" &&
		!containsNormalized(normalize(j.Title, m.folded), m.title) &&
		!containsNormalized(normalize(j.CompanyName, m.folded), m.title) {
		return false
	}
	return containsNormalized(normalize(j.Location, m.folded), m.location)
}

// matchFilters checks every active selection except skip's.
func (m matcher) matchFilters(j job.Job, skip FilterCategory) bool {
	for c, vals := range m.selected {
		if c == skip || len(vals) == 0 {
			continue
		}
		v, ok := ValueFor(j, c)
		if !ok || !slices.Contains(vals, v) {
			return false
		}
	}
	return true
}

// Filter returns the jobs matching the text queries and every selection, in
// input order.
func Filter(jobs []job.Job, q Query) []job.Job {
	m := q.matcher()
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if m.matchText(j) && m.matchFilters(j, "") {
			out = append(out, j)
		}
	}
	return out
}
