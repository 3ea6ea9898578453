package dto

import "jobnest/internal/search"

type ListingResponse struct {
	Jobs      []JobCard     `json:"jobs"`
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	PageSize  int           `json:"page_size"`
	Offset    int           `json:"offset"`
	Total     int           `json:"total"`
	Counts    search.Counts `json:"counts"`
	Source    string        `json:"source"`
}

func NewListingResponse(l search.Listing) ListingResponse {
	return ListingResponse{
		Jobs:      NewJobCards(l.Page),
		Page:      l.PageIndex,
		PageCount: l.PageCount,
		PageSize:  l.PageSize,
		Offset:    l.Offset,
		Total:     l.Total,
		Counts:    l.Counts,
		Source:    l.Source.String(),
	}
}
