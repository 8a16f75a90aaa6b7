// Package config provides PostgreSQL database configuration for DocumentStore testing.
//
// The DSN of the test database is read from the QUERYBUILDER_POSTGRES_DSN environment variable,
// optionally provided through a .env file. The factory functions create connections
// for each adapter the DocumentStore supports (pgx.Pool, sql.DB, sqlx.DB).
package config
