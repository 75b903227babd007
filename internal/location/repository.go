package location

import "context"

// Repository defines the interface for location persistence.
type Repository interface {
	// Get retrieves a location by ID.
	Get(ctx context.Context, id int64) (*Location, error)

	// List retrieves all locations ordered by ID.
	List(ctx context.Context) ([]*Location, error)

	// Create assigns the next ID to loc and stores it. IDs are never reused,
	// even after the highest one is deleted.
	Create(ctx context.Context, loc *Location) error

	// Modify loads the location, calls fn on it and stores the result
	// atomically. Returns ErrLocationNotFound when the ID is unknown. If fn
	// returns an error nothing is written.
	Modify(ctx context.Context, id int64, fn func(*Location) error) (*Location, error)

	// Delete deletes a location by ID. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id int64) error
}
