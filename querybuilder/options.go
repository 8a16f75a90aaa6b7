package querybuilder

// Option defines a functional option for configuring a Registry.
type Option func(*Registry) error

// WithLogger sets the logger for the Registry.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: resolved invocations and conventions shadowed by first-match-wins
// Info level: load and rebuild summaries
// Warn level: duplicate conventions that were ignored
// Error level: failed rebuilds and failed resolves.
func WithLogger(logger Logger) Option {
	return func(r *Registry) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Registry.
// Resolve passes its context, so log records can be correlated with the active trace.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(r *Registry) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Registry.
func WithMetrics(collector MetricsCollector) Option {
	return func(r *Registry) error {
		r.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Registry. Each Resolve gets its own span.
func WithTracing(collector TracingCollector) Option {
	return func(r *Registry) error {
		r.tracingCollector = collector
		return nil
	}
}

// WithDeferredRebuild stops the Load methods from rebuilding the binding table.
// Use it for bulk loading, then call RebuildBindings once.
func WithDeferredRebuild() Option {
	return func(r *Registry) error {
		r.deferredRebuild = true
		return nil
	}
}

// WithAmbiguityPolicy sets the policy applied when several conventions match one method.
func WithAmbiguityPolicy(policy AmbiguityPolicy) Option {
	return func(r *Registry) error {
		r.policy = policy
		return nil
	}
}
