// Package oteladapters provides OpenTelemetry implementations of the querybuilder observability interfaces.
//
// The same adapters serve the Registry and the postgresengine.DocumentStore:
//
//	registry, _ := querybuilder.NewRegistry(
//		querybuilder.WithContextualLogger(oteladapters.NewSlogBridgeLogger("querybuilder")),
//		querybuilder.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("querybuilder"))),
//		querybuilder.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("querybuilder"))),
//	)
package oteladapters
