package application

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu           sync.RWMutex
	applications map[int64]*Application
	lastID       int64
}

// NewInMemoryRepository creates a new in-memory application repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		applications: make(map[int64]*Application),
	}
}

// NewInMemoryRepositoryWith creates a repository holding copies of apps.
func NewInMemoryRepositoryWith(apps []*Application) *InMemoryRepository {
	r := NewInMemoryRepository()
	for _, a := range apps {
		r.applications[a.ID] = a.Clone()
		if a.ID > r.lastID {
			r.lastID = a.ID
		}
	}
	return r
}

// Get retrieves an application by ID.
func (r *InMemoryRepository) Get(_ context.Context, id int64) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return a.Clone(), nil
}

// List retrieves applications matching filter, ordered by ID.
func (r *InMemoryRepository) List(_ context.Context, filter Filter) ([]*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]*Application, 0, len(r.applications))
	for _, a := range r.applications {
		if filter.Matches(a) {
			apps = append(apps, a.Clone())
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

// Create assigns the next ID to app and stores a copy.
func (r *InMemoryRepository) Create(_ context.Context, app *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	app.ID = r.lastID
	r.applications[app.ID] = app.Clone()
	return nil
}

// UpdateStatus replaces the status of an application.
func (r *InMemoryRepository) UpdateStatus(_ context.Context, id int64, status Status) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	a.Status = status
	return a.Clone(), nil
}

// Delete deletes an application by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.applications, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
