// Package users is an example application of the query builder.
//
// UserQueries declares the queries of the User entity by method name only; the standard
// conventions derive their filters and updates. Queries implements the interface by
// resolving each call through a querybuilder.Registry, and Repository executes the
// resolutions with the PostgreSQL document store.
package users
