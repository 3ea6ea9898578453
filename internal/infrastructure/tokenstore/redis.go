package tokenstore

import (
	"context"
	"time"
)

const defaultPrefix = "jobnest:session:"

// KV is the slice of the redis cache the store needs.
type KV interface {
	Available() bool
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type RedisStore struct {
	kv     KV
	prefix string
}

func NewRedisStore(kv KV, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisStore{kv: kv, prefix: prefix}
}

func (s *RedisStore) Load(ctx context.Context) (Tokens, error) {
	access, _, err := s.kv.GetString(ctx, s.prefix+KeyAccessToken)
	if err != nil {
		return Tokens{}, err
	}
	refresh, _, err := s.kv.GetString(ctx, s.prefix+KeyRefreshToken)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *RedisStore) Save(ctx context.Context, t Tokens) error {
	if err := s.kv.SetString(ctx, s.prefix+KeyAccessToken, t.AccessToken, 0); err != nil {
		return err
	}
	return s.kv.SetString(ctx, s.prefix+KeyRefreshToken, t.RefreshToken, 0)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.prefix+KeyAccessToken, s.prefix+KeyRefreshToken)
}
