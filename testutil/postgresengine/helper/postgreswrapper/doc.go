// Package postgreswrapper provides a unified interface for testing the DocumentStore
// with the different PostgreSQL adapters.
//
// The adapter is selected with the ADAPTER_TYPE environment variable (pgxpool, sqldb or sqlx),
// so the same integration tests run against every supported adapter.
package postgreswrapper
