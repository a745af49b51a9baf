// Package server provides HTTP routing, middleware, and handlers for the movie favorites web app.
//
// # Routes
//
//	GET  /                                           users list and create form
//	POST /users                                      create a user (form: user_name)
//	GET  /users/{user_id}/movies                     a user's movies
//	POST /users/{user_id}/movies                     add a movie from lookup (form: title)
//	POST /users/{user_id}/movies/{movie_id}/update   merge-patch a movie
//	POST /users/{user_id}/movies/{movie_id}/delete   delete a movie
//	GET  /healthz                                    liveness and database ping
//	GET  /metrics                                    Prometheus scrape endpoint
//
// Routing uses chi. Every request passes through [RequestID], [Logging],
// [Recovery] and, when a recorder is configured, [Metrics].
//
// # Update Forms
//
// An empty form field leaves the column unchanged. A checked clear_<field>
// box stores NULL for that column. The name can be changed but never cleared.
//
// # Error Mapping
//
// Handler errors are mapped to status codes by [StatusFor] and rendered with the error page:
//   - [shared.ErrInvalidInput] : 400
//   - [shared.ErrNotOwner] : 403
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrUniqueViolation], [shared.ErrForeignKeyViolation] : 409
//   - [shared.ErrLookupMiss] : 422, with the provider's message
//   - [shared.ErrLookupUnavailable] : 502
//   - [shared.ErrMissingCredentials] : 503
package server
