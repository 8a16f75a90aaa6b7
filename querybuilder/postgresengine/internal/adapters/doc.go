// Package adapters provides the database adapters of the PostgreSQL document store.
//
// pgx.Pool, sql.DB and sqlx.DB are wrapped behind the common DBAdapter interface, so the
// DocumentStore runs the same SQL no matter which library the application already uses.
package adapters
