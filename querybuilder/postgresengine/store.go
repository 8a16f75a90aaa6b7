package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/postgresengine/internal/adapters"
)

// Document is one stored entity document.
type Document struct {
	ID        uuid.UUID
	Entity    querybuilder.EntityType
	Data      []byte
	CreatedAt time.Time
}

// Decode unmarshals the document data into the given target.
func (d Document) Decode(into any) error {
	if err := documentJSON.Unmarshal(d.Data, into); err != nil {
		return errors.Join(ErrUnmarshalingDocumentFailed, err)
	}

	return nil
}

// ExecutionResult is the outcome of executing a Resolution.
// Documents is filled for filter-only resolutions, RowsAffected for updates.
type ExecutionResult struct {
	Documents    []Document
	RowsAffected int64
}

// DocumentStore executes filters and updates against entity documents stored as jsonb in PostgreSQL.
type DocumentStore struct {
	db               adapters.DBAdapter
	statements       Statements
	logger           querybuilder.Logger
	contextualLogger querybuilder.ContextualLogger
	metricsCollector querybuilder.MetricsCollector
	tracingCollector querybuilder.TracingCollector
}

// NewDocumentStoreFromPGXPool creates a new DocumentStore using a pgx Pool with optional configuration.
func NewDocumentStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (DocumentStore, error) {
	if db == nil {
		return DocumentStore{}, ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewPGXAdapter(db), options...)
}

// NewDocumentStoreFromSQLDB creates a new DocumentStore using a sql.DB with optional configuration.
func NewDocumentStoreFromSQLDB(db *sql.DB, options ...Option) (DocumentStore, error) {
	if db == nil {
		return DocumentStore{}, ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewSQLAdapter(db), options...)
}

// NewDocumentStoreFromSQLX creates a new DocumentStore using a sqlx.DB with optional configuration.
func NewDocumentStoreFromSQLX(db *sqlx.DB, options ...Option) (DocumentStore, error) {
	if db == nil {
		return DocumentStore{}, ErrNilDatabaseConnection
	}

	return newDocumentStore(adapters.NewSQLXAdapter(db), options...)
}

func newDocumentStore(db adapters.DBAdapter, options ...Option) (DocumentStore, error) {
	ds := DocumentStore{
		db:         db,
		statements: NewStatements(defaultTableName),
	}

	for _, option := range options {
		if err := option(&ds); err != nil {
			return DocumentStore{}, err
		}
	}

	return ds, nil
}

// Statements returns the statement renderer of this DocumentStore.
func (ds DocumentStore) Statements() Statements {
	return ds.statements
}

// EnsureTable creates the documents table if it does not exist yet.
func (ds DocumentStore) EnsureTable(ctx context.Context) error {
	observer, ctx := ds.observe(ctx, operationCreateTable, querybuilder.EntityType{})

	if _, err := ds.exec(ctx, observer, ds.statements.CreateTable()); err != nil {
		return observer.failure(err)
	}

	observer.success(-1, -1)

	return nil
}

// Insert stores the document for the given entity and returns its generated ID.
func (ds DocumentStore) Insert(ctx context.Context, entity querybuilder.EntityType, document any) (uuid.UUID, error) {
	observer, ctx := ds.observe(ctx, operationInsert, entity)

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, observer.failure(errors.Join(ErrGeneratingIDFailed, err))
	}

	data, err := documentJSON.Marshal(document)
	if err != nil {
		return uuid.Nil, observer.failure(errors.Join(ErrMarshalingDocumentFailed, err))
	}

	sqlQuery, err := ds.statements.Insert(entity, id, data)
	if err != nil {
		return uuid.Nil, observer.failure(err)
	}

	rowsAffected, err := ds.exec(ctx, observer, sqlQuery)
	if err != nil {
		return uuid.Nil, observer.failure(err)
	}

	observer.success(-1, rowsAffected)

	return id, nil
}

// Find returns the documents of the entity that match the filter, oldest first.
// A nil filter returns every document of the entity.
func (ds DocumentStore) Find(
	ctx context.Context,
	entity querybuilder.EntityType,
	filter *querybuilder.Filter,
) ([]Document, error) {

	observer, ctx := ds.observe(ctx, operationFind, entity)

	sqlQuery, err := ds.statements.Select(entity, filter)
	if err != nil {
		return nil, observer.failure(err)
	}

	documents, err := ds.queryDocuments(ctx, observer, entity, sqlQuery)
	if err != nil {
		return nil, observer.failure(err, logAttrQuery, sqlQuery)
	}

	observer.success(len(documents), -1)

	return documents, nil
}

// Count returns the number of documents of the entity that match the filter.
func (ds DocumentStore) Count(ctx context.Context, entity querybuilder.EntityType, filter *querybuilder.Filter) (int64, error) {
	observer, ctx := ds.observe(ctx, operationCount, entity)

	sqlQuery, err := ds.statements.Count(entity, filter)
	if err != nil {
		return 0, observer.failure(err)
	}

	rows, err := ds.query(ctx, observer, sqlQuery)
	if err != nil {
		return 0, observer.failure(err, logAttrQuery, sqlQuery)
	}
	defer ds.closeRows(rows)

	var count int64
	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			return 0, observer.failure(errors.Join(ErrScanningDBRowFailed, scanErr))
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return 0, observer.failure(errors.Join(ErrScanningDBRowFailed, rowsErr))
	}

	observer.success(-1, -1)

	return count, nil
}

// Update applies the update to the documents of the entity that match the filter
// and returns the number of updated documents.
func (ds DocumentStore) Update(
	ctx context.Context,
	entity querybuilder.EntityType,
	filter *querybuilder.Filter,
	update querybuilder.Update,
) (int64, error) {

	observer, ctx := ds.observe(ctx, operationUpdate, entity)

	sqlQuery, err := ds.statements.Update(entity, filter, update)
	if err != nil {
		return 0, observer.failure(err)
	}

	rowsAffected, err := ds.exec(ctx, observer, sqlQuery)
	if err != nil {
		return 0, observer.failure(err, logAttrQuery, sqlQuery)
	}

	observer.success(-1, rowsAffected)

	return rowsAffected, nil
}

// Delete removes the documents of the entity that match the filter and returns their number.
func (ds DocumentStore) Delete(ctx context.Context, entity querybuilder.EntityType, filter *querybuilder.Filter) (int64, error) {
	observer, ctx := ds.observe(ctx, operationDelete, entity)

	sqlQuery, err := ds.statements.Delete(entity, filter)
	if err != nil {
		return 0, observer.failure(err)
	}

	rowsAffected, err := ds.exec(ctx, observer, sqlQuery)
	if err != nil {
		return 0, observer.failure(err, logAttrQuery, sqlQuery)
	}

	observer.success(-1, rowsAffected)

	return rowsAffected, nil
}

// Execute runs what the resolution stands for: an update if it carries one, otherwise a find.
// An update without a filter changes every document of the entity.
func (ds DocumentStore) Execute(ctx context.Context, resolution querybuilder.Resolution) (ExecutionResult, error) {
	switch {
	case resolution.HasUpdate():
		rowsAffected, err := ds.Update(ctx, resolution.Entity(), resolution.Filter(), *resolution.Update())
		if err != nil {
			return ExecutionResult{}, err
		}

		return ExecutionResult{RowsAffected: rowsAffected}, nil

	case resolution.HasFilter():
		documents, err := ds.Find(ctx, resolution.Entity(), resolution.Filter())
		if err != nil {
			return ExecutionResult{}, err
		}

		return ExecutionResult{Documents: documents}, nil

	default:
		return ExecutionResult{}, ErrNothingToExecute
	}
}

func (ds DocumentStore) queryDocuments(
	ctx context.Context,
	observer *operationObserver,
	entity querybuilder.EntityType,
	sqlQuery sqlQueryString,
) ([]Document, error) {

	rows, err := ds.query(ctx, observer, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer ds.closeRows(rows)

	documents := make([]Document, 0)

	for rows.Next() {
		var (
			id        string
			data      string
			createdAt time.Time
		)

		if scanErr := rows.Scan(&id, &data, &createdAt); scanErr != nil {
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		parsedID, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return nil, errors.Join(ErrScanningDBRowFailed, parseErr)
		}

		documents = append(documents, Document{
			ID:        parsedID,
			Entity:    entity,
			Data:      []byte(data),
			CreatedAt: createdAt,
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(ErrScanningDBRowFailed, rowsErr)
	}

	return documents, nil
}

func (ds DocumentStore) query(ctx context.Context, observer *operationObserver, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, err := ds.db.Query(ctx, sqlQuery)
	observer.sqlExecuted(sqlQuery, time.Since(start))

	if err != nil {
		return nil, errors.Join(ErrQueryingDocumentsFailed, err)
	}

	return rows, nil
}

func (ds DocumentStore) exec(ctx context.Context, observer *operationObserver, sqlQuery sqlQueryString) (int64, error) {
	start := time.Now()
	result, err := ds.db.Exec(ctx, sqlQuery)
	observer.sqlExecuted(sqlQuery, time.Since(start))

	if err != nil {
		return 0, errors.Join(ErrExecutingStatementFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Join(ErrGettingRowsAffectedFailed, err)
	}

	return rowsAffected, nil
}

// closeRows closes database rows and logs any errors.
func (ds DocumentStore) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		ds.logCloseRowsFailed(err)
	}
}
