package memory

import (
	"context"
	"sync"

	"shopeelife/internal/app/ports"
)

type Store struct {
	mu       sync.RWMutex
	progress map[string]ports.Progress
}

func NewStore() *Store {
	return &Store{
		progress: make(map[string]ports.Progress),
	}
}

func (s *Store) SeedProgress(p ports.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[p.UserID] = p
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read and write take the store lock unless the caller already holds it
// through RunInTx.
func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}
