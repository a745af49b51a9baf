package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Storage constraint errors
	ErrUniqueViolation     = fmt.Errorf("uniqueness violation")
	ErrForeignKeyViolation = fmt.Errorf("referential integrity violation")
	ErrNotFound            = fmt.Errorf("not found")

	// Lookup provider errors
	ErrLookupUnavailable = fmt.Errorf("lookup provider unavailable")
	ErrLookupMiss        = fmt.Errorf("lookup found no match")

	// Ownership errors
	ErrNotOwner = fmt.Errorf("movie does not belong to user")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
