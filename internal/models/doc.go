// Package models defines domain entities and persistence interfaces for the moviweb service.
//
// The package contains three groups of types:
//
// 1. Persistent entities backed by the users and movies tables
//   - [User] : a named profile; the name is unique across all users
//   - [Movie] : a favorite film owned by exactly one user through its user id
//
// 2. Value wrappers
//   - [Optional] : a value that may be absent, mapped to SQL NULL
//   - [Field] : a merge-patch slot that is either omitted, set to a value, or set to null
//
// 3. Update descriptors
//   - [MoviePatch] : the field-level merge-patch applied by the movie repository
//
// Users and movies are independent records related only by the movies.user_id foreign key.
// There is no object graph: a user's movies are always fetched with an explicit query.
package models
