// Package services integrates with the external movie metadata provider.
//
// # Lookup Interface
//
// Providers implement [Lookup]: one synchronous request per title, never retried and never cached.
// A successful lookup yields a [Candidate], the field set a new movie is created from.
//
// # OMDb Implementation
//
// [OMDbService] issues GET ?apikey=&t= against an OMDb-compatible endpoint.
// The API key is required at construction; an empty key fails with [shared.ErrMissingCredentials].
//
// # Error Handling
//
// Failures are classified so callers can map them with errors.Is:
//   - [shared.ErrLookupUnavailable] : transport failure, non-2xx status or an undecodable body
//   - [shared.ErrLookupMiss] : the provider answered but reported no match; see [LookupMissError]
//
// # Field Mapping
//
// Title becomes the movie name. Director and Poster pass through unchanged when present.
// Year is kept only when it consists entirely of decimal digits, so "N/A" or "2010–2012" leave it absent.
package services
