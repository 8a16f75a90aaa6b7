package querybuilder

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Logger interface for operational logging, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// *slog.Logger satisfies it.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting Registry performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods for better tracing integration.
// This interface is optional - the Registry uses the context-aware methods when available.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing information from Registry operations.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

const (
	logMsgMethodsLoaded        = "query builder methods loaded"
	logMsgConventionsLoaded    = "conventions loaded"
	logMsgDuplicateConventions = "duplicate conventions ignored"
	logMsgBindingsRebuilt      = "binding table rebuilt"
	logMsgRebuildFailed        = "binding table rebuild failed"
	logMsgConventionShadowed   = "convention shadowed by earlier registration"
	logMsgInvocationResolved   = "invocation resolved"
	logMsgResolveFailed        = "invocation resolve failed"
	logMsgOperation            = "querybuilder operation: "
	logAttrError               = "error"
	logAttrModule              = "module"
	logAttrMethod              = "method"
	logAttrEntity              = "entity"
	logAttrConvention          = "convention"
	logAttrShadowed            = "shadowed"
	logAttrAdded               = "added"
	logAttrIgnored             = "ignored"
	logAttrTotal               = "total"
	logAttrBindings            = "bindings"
	logAttrHasFilter           = "has_filter"
	logAttrHasUpdate           = "has_update"
	logAttrDurationMS          = "duration_ms"
	metricRebuildDuration      = "querybuilder_rebuild_duration_seconds"
	metricRebuildsTotal        = "querybuilder_rebuilds_total"
	metricBindings             = "querybuilder_bindings"
	metricResolveDuration      = "querybuilder_resolve_duration_seconds"
	metricResolvesTotal        = "querybuilder_resolves_total"
	metricResolveErrors        = "querybuilder_resolve_errors_total"
	spanNameResolve            = "querybuilder.resolve"
	spanAttrOperation          = "operation"
	spanAttrMethod             = "method"
	spanAttrEntity             = "entity"
	spanAttrConvention         = "convention"
	spanAttrErrorType          = "error_type"
	spanAttrDurationMS         = "duration_ms"
	labelStatus                = "status"
	operationRebuild           = "rebuild"
	operationResolve           = "resolve"
	statusSuccess              = "success"
	statusError                = "error"
	errorTypeUnbound           = "unbound_method"
	errorTypeEmptyGeneration   = "empty_generation"
	errorTypeGenerationFailed  = "generation_failed"
	errorTypeBindingsNotBuilt  = "bindings_not_built"
	errorTypeNoMatch           = "no_matching_convention"
	errorTypeAmbiguous         = "ambiguous_binding"
	errorTypeConflictingDecl   = "conflicting_declaration"
	errorTypeUnknown           = "unknown"
)

// logOperation logs operational information at info level to whichever loggers are configured.
func (r *Registry) logOperation(ctx context.Context, action string, args ...any) {
	if r.logger != nil {
		r.logger.Info(logMsgOperation+action, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (r *Registry) logDebug(ctx context.Context, message string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(message, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.DebugContext(ctx, message, args...)
	}
}

func (r *Registry) logWarn(ctx context.Context, message string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(message, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.WarnContext(ctx, message, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (r *Registry) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if r.logger != nil {
		r.logger.Error(message, allArgs...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDuration records a duration metric, using the context-aware method if available.
func (r *Registry) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if r.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	r.metricsCollector.RecordDuration(metric, duration, labels)
}

// incrementCounter increments a counter metric, using the context-aware method if available.
func (r *Registry) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if r.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	r.metricsCollector.IncrementCounter(metric, labels)
}

// recordValue records a value metric, using the context-aware method if available.
func (r *Registry) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if r.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	r.metricsCollector.RecordValue(metric, value, labels)
}

// startResolveSpan starts a tracing span for a resolve operation if the tracing collector is configured.
func (r *Registry) startResolveSpan(ctx context.Context, invocation Invocation) (context.Context, SpanContext) {
	if r.tracingCollector == nil {
		return ctx, nil
	}

	return r.tracingCollector.StartSpan(ctx, spanNameResolve, map[string]string{
		spanAttrOperation: operationResolve,
		spanAttrMethod:    invocation.method.QualifiedName(),
		spanAttrEntity:    invocation.entity.String(),
	})
}

// finishResolveSpan finishes a resolve span if the tracing collector is configured.
func (r *Registry) finishResolveSpan(span SpanContext, status string, duration time.Duration, attrs map[string]string) {
	if r.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.3f", toMilliseconds(duration)))

	r.tracingCollector.FinishSpan(span, status, attrs)
}
