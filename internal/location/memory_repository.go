package location

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	locations map[int64]*Location
	lastID    int64
}

// NewInMemoryRepository creates a new in-memory location repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		locations: make(map[int64]*Location),
	}
}

// NewInMemoryRepositoryWith creates a repository holding copies of locs.
// Their IDs are kept as given.
func NewInMemoryRepositoryWith(locs []*Location) *InMemoryRepository {
	r := NewInMemoryRepository()
	for _, l := range locs {
		r.locations[l.ID] = l.Clone()
		if l.ID > r.lastID {
			r.lastID = l.ID
		}
	}
	return r
}

// Get retrieves a location by ID.
func (r *InMemoryRepository) Get(_ context.Context, id int64) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.locations[id]
	if !ok {
		return nil, ErrLocationNotFound
	}
	return l.Clone(), nil
}

// List retrieves all locations ordered by ID.
func (r *InMemoryRepository) List(_ context.Context) ([]*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locs := make([]*Location, 0, len(r.locations))
	for _, l := range r.locations {
		locs = append(locs, l.Clone())
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].ID < locs[j].ID })
	return locs, nil
}

// Create assigns the next ID to loc and stores a copy.
func (r *InMemoryRepository) Create(_ context.Context, loc *Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	loc.ID = r.lastID
	r.locations[loc.ID] = loc.Clone()
	return nil
}

// Modify applies fn to the stored location under the write lock.
func (r *InMemoryRepository) Modify(_ context.Context, id int64, fn func(*Location) error) (*Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locations[id]
	if !ok {
		return nil, ErrLocationNotFound
	}

	cpy := l.Clone()
	if err := fn(cpy); err != nil {
		return nil, err
	}
	cpy.ID = id
	r.locations[id] = cpy
	return cpy.Clone(), nil
}

// Delete deletes a location by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locations, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
