package tokenstore

import (
	"context"
	"errors"
	"log"
	"strings"

	"jobnest/internal/config"
)

const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

var ErrUnknownBackend = errors.New("unknown token store")

// Tokens is what survives between runs.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (t Tokens) Empty() bool {
	return strings.TrimSpace(t.AccessToken) == ""
}

type Store interface {
	Load(ctx context.Context) (Tokens, error)
	Save(ctx context.Context, t Tokens) error
	Clear(ctx context.Context) error
}

// New picks the backend named by cfg. A redis store whose server is down
// falls back to the file store.
func New(cfg config.StorageConfig, kv KV, logger *log.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.TokenStore)) {
	case "", "file":
		return NewFileStore(cfg.TokenFile), nil
	case "redis":
		if kv == nil || !kv.Available() {
			if logger != nil {
				logger.Printf("[TokenStore] redis unavailable, using file=%s", cfg.TokenFile)
			}
			return NewFileStore(cfg.TokenFile), nil
		}
		return NewRedisStore(kv, ""), nil
	default:
		return nil, ErrUnknownBackend
	}
}
