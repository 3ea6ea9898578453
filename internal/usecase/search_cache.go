package usecase

import (
	"context"
	"time"
)

// jobsCachePattern matches every listing and search collection key.
const jobsCachePattern = "jobs:*"

type jsonStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// fillLocker lets one caller refill a missing collection while the others
// wait for it instead of hitting the backend too.
type fillLocker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// ListingCache holds backend job collections between listing renders. Errors
// are treated as misses.
type ListingCache interface {
	jsonStore
	fillLocker
	DeleteByPattern(ctx context.Context, pattern string) error
}
