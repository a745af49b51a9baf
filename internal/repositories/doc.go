// Package repositories implements SQLite persistence for users and movies.
//
// Every mutating operation runs in its own transaction and commits atomically;
// a failed call leaves storage unchanged. A missing row is a normal return
// (nil model, nil error), only constraint and driver failures are errors.
//
// Key Implementations:
//   - [UserRepository] : user profiles with unique names
//   - [MovieRepository] : favorite movies owned by a user, with merge-patch updates
//   - [Store] : both repositories sharing one connection pool
//
// Constraint failures reported by the driver are classified into
// [shared.ErrUniqueViolation] and [shared.ErrForeignKeyViolation]; the
// underlying [sqlite3.Error] stays reachable with errors.As.
package repositories
