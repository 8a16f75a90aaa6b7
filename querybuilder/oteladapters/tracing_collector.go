package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

const (
	statusSuccess        = "success"
	statusError          = "error"
	attrStatus           = "status"
	attrErrorType        = "error_type"
	descriptionFailed    = "operation failed"
	descriptionErrorType = "operation failed: "
)

// TracingCollector implements querybuilder.TracingCollector using the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector starting its spans with the given tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span as a child of the span in ctx, if any.
func (t *TracingCollector) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, querybuilder.SpanContext) {

	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds the attributes, sets the final status and ends the span.
// Span contexts not created by a TracingCollector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx querybuilder.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(attributes(attrs)...)
	otelSpanCtx.setSpanStatus(status, attrs[attrErrorType])
	otelSpanCtx.span.End()
}

var _ querybuilder.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements querybuilder.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status, "")
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// Span returns the wrapped OpenTelemetry span.
func (s *OTelSpanContext) Span() trace.Span {
	return s.span
}

func (s *OTelSpanContext) setSpanStatus(status, errorType string) {
	switch status {
	case statusSuccess:
		s.span.SetStatus(codes.Ok, "")
	case statusError:
		if errorType != "" {
			s.span.SetStatus(codes.Error, descriptionErrorType+errorType)
			return
		}

		s.span.SetStatus(codes.Error, descriptionFailed)
	default:
		s.span.SetAttributes(attribute.String(attrStatus, status))
	}
}

var _ querybuilder.SpanContext = (*OTelSpanContext)(nil)
