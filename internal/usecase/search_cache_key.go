package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"jobnest/internal/domain/job"
)

const (
	jobsListPrefix   = "jobs:list:"
	jobsSearchPrefix = "jobs:search:"
	jobsLockPrefix   = "jobs:lock:"
)

type jobsCacheKeyInput struct {
	Keyword  string `json:"keyword,omitempty"`
	Location string `json:"location,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Page     int    `json:"page"`
	Size     int    `json:"size"`
}

// normalizeSearchValue trims and collapses whitespace. Case is kept: the
// backend decides whether its search is case sensitive.
func normalizeSearchValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeSearchParams is applied before a search is both keyed and sent,
// so one cache entry always answers one backend query.
func NormalizeSearchParams(p job.SearchParams) job.SearchParams {
	p.Keyword = normalizeSearchValue(p.Keyword)
	p.Location = normalizeSearchValue(p.Location)
	p.Category = normalizeSearchValue(p.Category)
	p.Type = normalizeSearchValue(p.Type)
	return p
}

func hashKey(prefix string, in jobsCacheKeyInput) string {
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:])
}

// JobsListCacheKey names one fetched page of the plain job collection.
func JobsListCacheKey(page, size int) string {
	return hashKey(jobsListPrefix, jobsCacheKeyInput{Page: page, Size: size})
}

// JobsSearchCacheKey names one backend search result; inputs are normalized
// so stray spacing does not split the cache.
func JobsSearchCacheKey(p job.SearchParams) string {
	p = NormalizeSearchParams(p)
	return hashKey(jobsSearchPrefix, jobsCacheKeyInput{
		Keyword:  p.Keyword,
		Location: p.Location,
		Category: p.Category,
		Type:     p.Type,
		Page:     p.Page,
		Size:     p.Size,
	})
}

// JobsLockKey is the fill lock for key: jobs:list:<h> locks as
// jobs:lock:list:<h>.
func JobsLockKey(key string) string {
	key = strings.TrimSpace(key)
	return jobsLockPrefix + strings.TrimPrefix(key, "jobs:")
}
