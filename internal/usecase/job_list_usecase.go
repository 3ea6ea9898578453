package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"jobnest/internal/config"
	"jobnest/internal/domain/job"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/repository"
	"jobnest/internal/search"
)

const (
	defaultFetchSize = 100
	fillLockTTL      = 30 * time.Second
)

type JobListUsecase interface {
	ListJobs(ctx context.Context, q search.Query) (search.Listing, error)
	Suggest(ctx context.Context, field, q string, limit int) ([]string, error)
	SearchJobs(ctx context.Context, params job.SearchParams) (httpapi.Page[job.Job], error)
	CategoryStats(ctx context.Context) ([]job.CategoryStats, error)
	Invalidate(ctx context.Context)
}

// loaded is one backend collection with its prebuilt index. It is reused by
// every query until it is older than the cache TTL.
type loaded struct {
	kind search.SourceKind
	idx  *search.Index
	at   time.Time
}

type JobList struct {
	jobs   repository.JobRepository
	cache  ListingCache
	logger *log.Logger

	fetchSize int
	pageSize  int
	fallback  bool
	fold      bool
	ttl       time.Duration
	now       func() time.Time
	sleep     func(time.Duration)

	mu   sync.Mutex
	last *loaded
}

func NewJobListUsecase(jobs repository.JobRepository, cache ListingCache, cfg config.ListingConfig, ttl time.Duration, logger *log.Logger) *JobList {
	fetch := cfg.FetchSize
	if fetch <= 0 {
		fetch = defaultFetchSize
	}
	size := cfg.PageSize
	if size <= 0 {
		size = search.DefaultPageSize
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &JobList{
		jobs:      jobs,
		cache:     cache,
		logger:    logger,
		fetchSize: fetch,
		pageSize:  size,
		fallback:  cfg.Fallback,
		fold:      cfg.FoldDiacritics,
		ttl:       ttl,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// ListJobs runs the listing pipeline over the current collection.
func (u *JobList) ListJobs(ctx context.Context, q search.Query) (search.Listing, error) {
	if err := q.Validate(); err != nil {
		return search.Listing{}, errors.Join(ErrInvalidInput, err)
	}
	if q.PageSize <= 0 {
		q.PageSize = u.pageSize
	}
	if u.fold {
		q.IgnoreDiacritics = true
	}
	l, err := u.load(ctx)
	if err != nil {
		return search.Listing{}, err
	}
	return search.RunIndexed(l.idx, l.kind, q)
}

func (u *JobList) Suggest(ctx context.Context, field, q string, limit int) ([]string, error) {
	l, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	return search.Suggest(l.idx.Jobs(), field, q, limit), nil
}

// SearchJobs goes to the backend search endpoint, caching each result page.
func (u *JobList) SearchJobs(ctx context.Context, params job.SearchParams) (httpapi.Page[job.Job], error) {
	params = NormalizeSearchParams(params)
	key := JobsSearchCacheKey(params)
	return cached(ctx, u, key, func(ctx context.Context) (httpapi.Page[job.Job], error) {
		return u.jobs.Search(ctx, params)
	})
}

func (u *JobList) CategoryStats(ctx context.Context) ([]job.CategoryStats, error) {
	return u.jobs.CategoryStats(ctx)
}

// Invalidate drops the in-process collection and every cached job key.
func (u *JobList) Invalidate(ctx context.Context) {
	u.mu.Lock()
	u.last = nil
	u.mu.Unlock()
	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, jobsCachePattern)
	}
}

func (u *JobList) load(ctx context.Context) (*loaded, error) {
	u.mu.Lock()
	if u.last != nil && u.now().Sub(u.last.at) < u.ttl {
		l := u.last
		u.mu.Unlock()
		return l, nil
	}
	u.mu.Unlock()

	src, err := u.source(ctx)
	if err != nil {
		return nil, err
	}
	l := &loaded{kind: src.Kind, idx: search.NewIndex(src.Jobs), at: u.now()}

	u.mu.Lock()
	u.last = l
	u.mu.Unlock()
	return l, nil
}

// source fetches the collection and tags it live or fallback.
func (u *JobList) source(ctx context.Context) (search.Source, error) {
	key := JobsListCacheKey(0, u.fetchSize)
	page, err := cached(ctx, u, key, func(ctx context.Context) (httpapi.Page[job.Job], error) {
		return u.jobs.List(ctx, 0, u.fetchSize)
	})
	if err != nil {
		if u.fallback && ctx.Err() == nil {
			u.logf("[Jobs] backend unavailable, serving fallback err=%v", err)
			return search.FallbackSource(), nil
		}
		return search.Source{}, err
	}

	src := search.Resolve(page.Content, u.fallback)
	if src.Kind == search.Fallback {
		u.logf("[Jobs] backend returned no jobs, serving fallback")
	}
	return src, nil
}

// cached reads key from the cache, or fills it with one caller while others
// wait briefly for that fill.
func cached[T any](ctx context.Context, u *JobList, key string, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	if u.cache == nil {
		return fetch(ctx)
	}

	if hit, err := u.cache.GetJSON(ctx, key, &out); err == nil && hit {
		u.logf("[Jobs] Cache HIT: %s", key)
		return out, nil
	}
	u.logf("[Jobs] Cache MISS: %s", key)

	lockKey := JobsLockKey(key)
	locked := false
	ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", fillLockTTL)
	switch {
	case err == nil && ok:
		locked = true
	case err == nil && !ok:
		jitter := time.Duration(u.now().UnixNano()%201) * time.Millisecond
		u.sleep(300*time.Millisecond + jitter)
		if hit, err := u.cache.GetJSON(ctx, key, &out); err == nil && hit {
			u.logf("[Jobs] Cache HIT: %s", key)
			return out, nil
		}
		u.logf("[Jobs] Lock wait fallback: %s", lockKey)
	}

	out, err = fetch(ctx)
	if locked {
		defer func() { _ = u.cache.Delete(ctx, lockKey) }()
	}
	if err != nil {
		return out, err
	}
	if err := u.cache.SetJSON(ctx, key, out, u.ttl); err == nil {
		u.logf("[Jobs] Cache SET: %s", key)
	}
	return out, nil
}

func (u *JobList) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
