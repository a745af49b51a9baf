// package models defines the data model for the movie favorites web service
package models

import "context"

// Model defines the base interface for all persistent models.
// Implementations are [User] and [Movie].
type Model interface {
	ID() int64       // ID returns the storage-assigned identifier, zero until persisted
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations shared by every model type.
//
// Get returns the zero value of T (a nil pointer) and a nil error when no row matches.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error                      // Create inserts a new model and assigns its ID
	Get(ctx context.Context, id int64) (T, error)                   // Get retrieves a model by its ID
	List(ctx context.Context, criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
