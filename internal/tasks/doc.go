// Package tasks orchestrates user and movie operations on top of the repositories and the metadata lookup.
//
// # Core Operations
//
// The [Engine] interface is what the CLI, web server and TUI call:
//
//  1. Users : create, list, show and delete profiles
//  2. Movies : list a user's movies, add one by hand or from a lookup
//  3. [Engine.UpdateForUser] / [Engine.DeleteForUser] : mutate a movie on behalf of a user
//     - the movie must belong to that user, otherwise [shared.ErrNotOwner]
//     - a missing movie is a normal (nil / false) return
//  4. [Engine.BulkImport] : look up a list of titles and add each hit
//     - lookups are sequential and throttled with a [rate.Limiter]
//     - titles already on the user's list (normalized) are skipped
//
// # Progress Reporting
//
// Long operations send [ProgressUpdate] values on a caller-supplied channel.
// Sends use select with default so a slow reader never blocks the import.
//
// # Lookup Metrics
//
// Every provider call is timed and its outcome classified with [ClassifyLookup];
// an optional [LookupRecorder] receives the observation.
package tasks
