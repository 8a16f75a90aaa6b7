// Package postgresengine executes query builder resolutions against entity documents stored as jsonb in PostgreSQL.
//
// Each document row carries the entity type it belongs to, so one table can hold documents of many entities.
// Filters become jsonb containment and comparison predicates, updates become jsonb merge, removal
// and jsonb_set expressions, all scoped to the entity of the resolution.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Statements renders the SQL without a database, e.g. for previews
//   - Configurable table name, logging, metrics and tracing via functional options
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewDocumentStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("user_documents"),
//		postgresengine.WithLogger(logger),
//	)
//
//	_ = store.EnsureTable(ctx)
//	resolution, _ := registry.Resolve(ctx, invocation)
//	result, _ := store.Execute(ctx, resolution)
package postgresengine
