// Package testdoubles provides spies for the observability interfaces of the query builder
// Registry and the postgresengine DocumentStore:
//   - LogHandlerSpy: a slog.Handler that captures records, for *slog.Logger based loggers
//   - ContextualLoggerSpy: captures context-aware log calls together with their context
//   - MetricsCollectorSpy: captures duration, counter and value metrics with their labels
//   - TracingCollectorSpy: captures started and finished spans
//
// All spies are safe for concurrent use.
package testdoubles
