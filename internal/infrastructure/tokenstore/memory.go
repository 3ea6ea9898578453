package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore forgets everything when the process exits.
type MemoryStore struct {
	mu sync.Mutex
	t  Tokens
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t, nil
}

func (s *MemoryStore) Save(_ context.Context, t Tokens) error {
	s.mu.Lock()
	s.t = t
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.t = Tokens{}
	s.mu.Unlock()
	return nil
}
