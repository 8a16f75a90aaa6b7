package postgresengine

import (
	"errors"
)

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrEmptyTableName = errors.New("documents table name must not be empty")
var ErrEmptyUpdate = errors.New("update must change at least one field")
var ErrNothingToExecute = errors.New("resolution has neither a filter nor an update")
var ErrUnsupportedOperator = errors.New("operator is not supported by the postgres engine")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrMarshalingDocumentFailed = errors.New("marshaling document failed")
var ErrUnmarshalingDocumentFailed = errors.New("unmarshaling document failed")
var ErrQueryingDocumentsFailed = errors.New("querying documents failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrExecutingStatementFailed = errors.New("executing statement failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrGeneratingIDFailed = errors.New("generating document id failed")
