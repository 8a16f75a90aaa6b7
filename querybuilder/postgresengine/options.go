package postgresengine

import (
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

// Option defines a functional option for configuring a DocumentStore.
type Option func(*DocumentStore) error

// WithTableName sets the documents table of the DocumentStore.
func WithTableName(tableName string) Option {
	return func(ds *DocumentStore) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		ds.statements = NewStatements(tableName)

		return nil
	}
}

// WithLogger sets the logger for the DocumentStore.
//
// Debug level: executed SQL with timing
// Info level: document counts and durations
// Error level: failed statements.
func WithLogger(logger querybuilder.Logger) Option {
	return func(ds *DocumentStore) error {
		ds.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger, which receives the context of each operation.
func WithContextualLogger(logger querybuilder.ContextualLogger) Option {
	return func(ds *DocumentStore) error {
		ds.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the DocumentStore.
func WithMetrics(collector querybuilder.MetricsCollector) Option {
	return func(ds *DocumentStore) error {
		ds.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the DocumentStore. Each operation gets its own span.
func WithTracing(collector querybuilder.TracingCollector) Option {
	return func(ds *DocumentStore) error {
		ds.tracingCollector = collector
		return nil
	}
}
