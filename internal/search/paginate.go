package search

import "jobnest/internal/domain/job"

// Paginate slices jobs at offset. Offsets past the end give an empty page.
func Paginate(jobs []job.Job, offset, size int) []job.Job {
	if size <= 0 {
		size = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(jobs) {
		return []job.Job{}
	}
	end := min(offset+size, len(jobs))
	return jobs[offset:end]
}

func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// OffsetForPage turns a 0-based page index into an offset. It wraps modulo
// the result count, so a stale page index after the results shrink lands
// inside the list.
func OffsetForPage(page, size, total int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	return (page * size) % max(total, 1)
}

// PageIndex is the 0-based page offset falls on.
func PageIndex(offset, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if offset <= 0 {
		return 0
	}
	return offset / size
}
