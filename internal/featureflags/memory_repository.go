package featureflags

import (
	"context"
	"sync"
)

// Repository persists flag values. Flags never written are absent from
// List and read as their default.
type Repository interface {
	List(ctx context.Context) ([]Flag, error)

	// Put stores flags atomically.
	Put(ctx context.Context, flags ...Flag) error
}

// InMemoryRepository keeps flags in process memory. Used when the API runs
// without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	flags map[string]Flag
}

// NewInMemoryRepository creates an empty repository; every flag reads as
// its default until written.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{flags: make(map[string]Flag)}
}

func (r *InMemoryRepository) List(_ context.Context) ([]Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Flag, 0, len(r.flags))
	for _, f := range r.flags {
		out = append(out, f)
	}
	return out, nil
}

func (r *InMemoryRepository) Put(_ context.Context, flags ...Flag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range flags {
		r.flags[f.Key] = f
	}
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
