package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

const (
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "documentstore operation: "
	logMsgOperationFailed     = "documentstore operation failed: "
	logMsgCloseRowsFailed     = "failed to close database rows"
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrEntity             = "entity"
	logAttrDocumentCount      = "document_count"
	logAttrRowsAffected       = "rows_affected"
	logAttrDurationMS         = "duration_ms"
	metricOperationDuration   = "documentstore_operation_duration_seconds"
	metricOperationsTotal     = "documentstore_operations_total"
	metricDocumentsReturned   = "documentstore_documents_returned"
	metricDatabaseErrors      = "documentstore_database_errors_total"
	spanNamePrefix            = "documentstore."
	spanAttrOperation         = "operation"
	spanAttrEntity            = "entity"
	spanAttrTable             = "table"
	spanAttrErrorType         = "error_type"
	spanAttrDurationMS        = "duration_ms"
	spanAttrRowsAffected      = "rows_affected"
	labelStatus               = "status"
	operationInsert           = "insert"
	operationFind             = "find"
	operationCount            = "count"
	operationUpdate           = "update"
	operationDelete           = "delete"
	operationCreateTable      = "create_table"
	statusSuccess             = "success"
	statusError               = "error"
	errorTypeBuildQuery       = "build_query"
	errorTypeMarshal          = "marshal"
	errorTypeUnmarshal        = "unmarshal"
	errorTypeDatabaseQuery    = "database_query"
	errorTypeDatabaseExec     = "database_exec"
	errorTypeRowScan          = "row_scan"
	errorTypeRowsAffected     = "rows_affected"
	errorTypeInvalidArguments = "invalid_arguments"
	errorTypeCanceled         = "canceled"
	errorTypeUnknown          = "unknown"
)

// operationObserver wraps one DocumentStore operation in a span, metrics and logs.
type operationObserver struct {
	ds        DocumentStore
	ctx       context.Context
	span      querybuilder.SpanContext
	operation string
	entity    string
	start     time.Time
}

func (ds DocumentStore) observe(
	ctx context.Context,
	operation string,
	entity querybuilder.EntityType,
) (*operationObserver, context.Context) {

	var span querybuilder.SpanContext

	if ds.tracingCollector != nil {
		ctx, span = ds.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation: operation,
			spanAttrEntity:    entity.String(),
			spanAttrTable:     ds.statements.TableName(),
		})
	}

	return &operationObserver{
		ds:        ds,
		ctx:       ctx,
		span:      span,
		operation: operation,
		entity:    entity.String(),
		start:     time.Now(),
	}, ctx
}

// sqlExecuted logs the statement at debug level.
func (o *operationObserver) sqlExecuted(sqlQuery string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if o.ds.logger != nil {
		o.ds.logger.Debug(logMsgSQLExecuted+o.operation, args...)
	}

	if o.ds.contextualLogger != nil {
		o.ds.contextualLogger.DebugContext(o.ctx, logMsgSQLExecuted+o.operation, args...)
	}
}

func (o *operationObserver) success(documents int, rowsAffected int64) {
	duration := time.Since(o.start)

	args := []any{logAttrEntity, o.entity, logAttrDurationMS, toMilliseconds(duration)}
	if documents >= 0 {
		args = append(args, logAttrDocumentCount, documents)
	}

	if rowsAffected >= 0 {
		args = append(args, logAttrRowsAffected, rowsAffected)
	}

	if o.ds.logger != nil {
		o.ds.logger.Info(logMsgOperation+o.operation, args...)
	}

	if o.ds.contextualLogger != nil {
		o.ds.contextualLogger.InfoContext(o.ctx, logMsgOperation+o.operation, args...)
	}

	labels := map[string]string{spanAttrOperation: o.operation, labelStatus: statusSuccess}
	o.recordDuration(duration, labels)
	o.incrementCounter(metricOperationsTotal, labels)

	if documents >= 0 {
		o.recordValue(metricDocumentsReturned, float64(documents), labels)
	}

	if o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))

		endAttrs := map[string]string{}
		if rowsAffected >= 0 {
			endAttrs[spanAttrRowsAffected] = strconv.FormatInt(rowsAffected, 10)
		}

		o.ds.tracingCollector.FinishSpan(o.span, statusSuccess, endAttrs)
	}
}

// failure records the error and returns it unchanged.
func (o *operationObserver) failure(err error, args ...any) error {
	duration := time.Since(o.start)
	errorType := classifyError(err)

	allArgs := append([]any{logAttrError, err.Error(), logAttrEntity, o.entity}, args...)

	if o.ds.logger != nil {
		o.ds.logger.Error(logMsgOperationFailed+o.operation, allArgs...)
	}

	if o.ds.contextualLogger != nil {
		o.ds.contextualLogger.ErrorContext(o.ctx, logMsgOperationFailed+o.operation, allArgs...)
	}

	o.recordDuration(duration, map[string]string{spanAttrOperation: o.operation, labelStatus: statusError})
	o.incrementCounter(metricDatabaseErrors, map[string]string{
		spanAttrOperation: o.operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))
		o.ds.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
	}

	return err
}

func (o *operationObserver) recordDuration(duration time.Duration, labels map[string]string) {
	if o.ds.metricsCollector == nil {
		return
	}

	if contextual, ok := o.ds.metricsCollector.(querybuilder.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metricOperationDuration, duration, labels)
		return
	}

	o.ds.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (o *operationObserver) incrementCounter(metric string, labels map[string]string) {
	if o.ds.metricsCollector == nil {
		return
	}

	if contextual, ok := o.ds.metricsCollector.(querybuilder.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	o.ds.metricsCollector.IncrementCounter(metric, labels)
}

func (o *operationObserver) recordValue(metric string, value float64, labels map[string]string) {
	if o.ds.metricsCollector == nil {
		return
	}

	if contextual, ok := o.ds.metricsCollector.(querybuilder.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metric, value, labels)
		return
	}

	o.ds.metricsCollector.RecordValue(metric, value, labels)
}

func (ds DocumentStore) logCloseRowsFailed(err error) {
	if ds.logger != nil {
		ds.logger.Warn(logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorTypeCanceled
	case errors.Is(err, ErrBuildingQueryFailed), errors.Is(err, ErrUnsupportedOperator):
		return errorTypeBuildQuery
	case errors.Is(err, ErrMarshalingDocumentFailed):
		return errorTypeMarshal
	case errors.Is(err, ErrUnmarshalingDocumentFailed):
		return errorTypeUnmarshal
	case errors.Is(err, ErrQueryingDocumentsFailed):
		return errorTypeDatabaseQuery
	case errors.Is(err, ErrExecutingStatementFailed):
		return errorTypeDatabaseExec
	case errors.Is(err, ErrScanningDBRowFailed):
		return errorTypeRowScan
	case errors.Is(err, ErrGettingRowsAffectedFailed):
		return errorTypeRowsAffected
	case errors.Is(err, ErrEmptyUpdate), errors.Is(err, ErrNothingToExecute):
		return errorTypeInvalidArguments
	default:
		return errorTypeUnknown
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", toMilliseconds(d))
}
