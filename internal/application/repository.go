package application

import "context"

// Repository defines the interface for application persistence.
type Repository interface {
	// Get retrieves an application by ID.
	Get(ctx context.Context, id int64) (*Application, error)

	// List retrieves applications matching filter, ordered by ID.
	List(ctx context.Context, filter Filter) ([]*Application, error)

	// Create assigns the next ID to app and stores it. IDs are never reused,
	// even after the highest one is deleted.
	Create(ctx context.Context, app *Application) error

	// UpdateStatus replaces the status of an application.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error)

	// Delete deletes an application by ID. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id int64) error
}
