package search

import "jobnest/internal/domain/job"

// Listing is the view model of one listing render.
type Listing struct {
	Jobs      []job.Job  `json:"-"`
	Page      []job.Job  `json:"jobs"`
	PageIndex int        `json:"page"`
	PageCount int        `json:"pageCount"`
	PageSize  int        `json:"pageSize"`
	Offset    int        `json:"offset"`
	Total     int        `json:"total"`
	Counts    Counts     `json:"counts"`
	Source    SourceKind `json:"source"`
}

// Run filters, sorts, pages and counts src for q.
func Run(src Source, q Query) (Listing, error) {
	return RunIndexed(NewIndex(src.Jobs), src.Kind, q)
}

// RunIndexed is Run over a prebuilt index, for callers that answer many
// queries against the same data load.
func RunIndexed(idx *Index, kind SourceKind, q Query) (Listing, error) {
	if err := q.Validate(); err != nil {
		return Listing{}, err
	}
	mode, _ := ParseSort(string(q.Sort))
	size := q.pageSize()

	matched := Sort(idx.Filter(q), mode)
	return Listing{
		Jobs:      matched,
		Page:      Paginate(matched, q.Offset, size),
		PageIndex: PageIndex(q.Offset, size),
		PageCount: PageCount(len(matched), size),
		PageSize:  size,
		Offset:    q.Offset,
		Total:     len(matched),
		Counts:    idx.Counts(q),
		Source:    kind,
	}, nil
}
