package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/convention-query-builder-go/querybuilder/postgresengine"
	"github.com/AntonStoeckl/convention-query-builder-go/testutil/postgresengine/config"
)

// Engine type constants
const (
	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"
)

// Wrapper interface to abstract over different engine types
type Wrapper interface {
	GetDocumentStore() DocumentStore
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	ds   DocumentStore
}

func (e *PGXPoolWrapper) GetDocumentStore() DocumentStore {
	return e.ds
}

func (e *PGXPoolWrapper) Close() {
	e.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db *sql.DB
	ds DocumentStore
}

func (e *SQLDBWrapper) GetDocumentStore() DocumentStore {
	return e.ds
}

func (e *SQLDBWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db *sqlx.DB
	ds DocumentStore
}

func (e *SQLXWrapper) GetDocumentStore() DocumentStore {
	return e.ds
}

func (e *SQLXWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the wrapper selected by the ADAPTER_TYPE environment variable,
// with the documents table in place.
// The test is skipped when no test database is configured.
func CreateWrapperWithTestConfig(t testing.TB, options ...Option) Wrapper {
	dsn, ok := config.PostgresTestDSN()
	if !ok {
		t.Skipf("%s is not set, skipping PostgreSQL integration test", config.PostgresDSNEnv)
	}

	var wrapper Wrapper
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch engineTypeFromEnv {
	case typePGXPool, "":
		pgxConfig, err := config.PostgresPGXPoolConfig(dsn)
		require.NoError(t, err, "error parsing the DB config in test setup")
		connPool, err := pgxpool.NewWithConfig(context.Background(), pgxConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")
		ds, err := NewDocumentStoreFromPGXPool(connPool, options...)
		require.NoError(t, err, "error creating the document store in test setup")

		wrapper = &PGXPoolWrapper{pool: connPool, ds: ds}

	case typeSQLDB:
		db, err := config.PostgresSQLDB(dsn)
		require.NoError(t, err, "error connecting to DB in test setup")
		ds, err := NewDocumentStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the document store in test setup")

		wrapper = &SQLDBWrapper{db: db, ds: ds}

	case typeSQLX:
		db, err := config.PostgresSQLX(dsn)
		require.NoError(t, err, "error connecting to DB in test setup")
		ds, err := NewDocumentStoreFromSQLX(db, options...)
		require.NoError(t, err, "error creating the document store in test setup")

		wrapper = &SQLXWrapper{db: db, ds: ds}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}

	require.NoError(t, wrapper.GetDocumentStore().EnsureTable(context.Background()), "error creating the documents table")

	return wrapper
}

// CleanUp removes all documents from the table of the given wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	query := "TRUNCATE TABLE " + wrapper.GetDocumentStore().Statements().TableName()

	switch e := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err := e.pool.Exec(context.Background(), query)
		require.NoError(t, err, "error cleaning up the documents table")

	case *SQLDBWrapper:
		_, err := e.db.Exec(query)
		require.NoError(t, err, "error cleaning up the documents table")

	case *SQLXWrapper:
		_, err := e.db.Exec(query)
		require.NoError(t, err, "error cleaning up the documents table")

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", e))
	}
}
