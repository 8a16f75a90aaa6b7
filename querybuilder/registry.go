package querybuilder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Registry holds the method catalog, the convention set and the active binding table.
//
// Loading and rebuilding are meant for the startup phase and are serialized internally.
// Resolve reads the active binding table without locking; a rebuild builds a new table
// and swaps it in atomically, so dispatching may continue during a rebuild.
type Registry struct {
	mu               sync.Mutex
	catalog          *Catalog
	conventions      *ConventionSet
	active           atomic.Pointer[BindingTable]
	deferredRebuild  bool
	policy           AmbiguityPolicy
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewRegistry creates an empty Registry with optional configuration.
func NewRegistry(options ...Option) (*Registry, error) {
	r := &Registry{
		catalog:     NewCatalog(),
		conventions: NewConventionSet(),
		policy:      FirstMatchWins,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// LoadMethods adds the query builder methods declared by the modules to the catalog
// and rebuilds the binding table unless the Registry was created WithDeferredRebuild.
func (r *Registry) LoadMethods(modules ...Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := validateModules(modules); err != nil {
		return err
	}

	if err := r.loadMethods(modules); err != nil {
		return err
	}

	return r.rebuildIfNotDeferred()
}

// LoadConventions adds the conventions of the modules to the convention set
// and rebuilds the binding table unless the Registry was created WithDeferredRebuild.
func (r *Registry) LoadConventions(modules ...Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := validateModules(modules); err != nil {
		return err
	}

	if err := r.loadConventions(modules); err != nil {
		return err
	}

	return r.rebuildIfNotDeferred()
}

// Load adds conventions and methods of the modules, then rebuilds once (unless deferred).
func (r *Registry) Load(modules ...Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := validateModules(modules); err != nil {
		return err
	}

	if err := r.loadConventions(modules); err != nil {
		return err
	}

	if err := r.loadMethods(modules); err != nil {
		return err
	}

	return r.rebuildIfNotDeferred()
}

// validateModules checks all modules before any of them changes the catalog or the convention set.
func validateModules(modules []Module) error {
	for _, module := range modules {
		if module.name == "" {
			return ErrEmptyModuleName
		}

		for _, convention := range module.conventions {
			if err := validateConvention(convention); err != nil {
				return fmt.Errorf("module %s: %w", module.name, err)
			}
		}
	}

	return nil
}

func (r *Registry) loadMethods(modules []Module) error {
	ctx := context.Background()

	for _, module := range modules {
		if module.name == "" {
			return ErrEmptyModuleName
		}

		added := r.catalog.Discover(module)

		r.logOperation(
			ctx,
			logMsgMethodsLoaded,
			logAttrModule, module.name,
			logAttrAdded, len(added),
			logAttrTotal, r.catalog.Len(),
		)
	}

	return nil
}

func (r *Registry) loadConventions(modules []Module) error {
	ctx := context.Background()

	for _, module := range modules {
		if module.name == "" {
			return ErrEmptyModuleName
		}

		added, err := r.conventions.Discover(module)
		if err != nil {
			r.logError(ctx, logMsgConventionsLoaded, err, logAttrModule, module.name)
			return err
		}

		if ignored := len(module.conventions) - len(added); ignored > 0 {
			r.logWarn(ctx, logMsgDuplicateConventions, logAttrModule, module.name, logAttrIgnored, ignored)
		}

		r.logOperation(
			ctx,
			logMsgConventionsLoaded,
			logAttrModule, module.name,
			logAttrAdded, len(added),
			logAttrTotal, r.conventions.Len(),
		)
	}

	return nil
}

func (r *Registry) rebuildIfNotDeferred() error {
	if r.deferredRebuild {
		return nil
	}

	return r.rebuild()
}

// RebuildBindings builds a new binding table from the current catalog and convention set
// and makes it the active one. If the build fails, the previously active table stays active.
func (r *Registry) RebuildBindings() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rebuild()
}

func (r *Registry) rebuild() error {
	ctx := context.Background()
	start := time.Now()

	table, err := BuildBindingTable(r.catalog.Descriptors(), r.conventions.All(), WithPolicy(r.policy))
	duration := time.Since(start)

	if err != nil {
		r.logError(ctx, logMsgRebuildFailed, err, logAttrDurationMS, toMilliseconds(duration))
		r.recordDuration(ctx, metricRebuildDuration, duration, map[string]string{labelStatus: statusError})
		r.incrementCounter(ctx, metricRebuildsTotal, map[string]string{
			spanAttrOperation: operationRebuild,
			labelStatus:       statusError,
			spanAttrErrorType: buildErrorType(err),
		})

		return err
	}

	for _, entry := range table.ordered {
		if len(entry.shadowed) > 0 {
			r.logDebug(
				ctx,
				logMsgConventionShadowed,
				logAttrMethod, entry.descriptor.method.QualifiedName(),
				logAttrConvention, entry.convention.Name(),
				logAttrShadowed, entry.Shadowed(),
			)
		}
	}

	r.active.Store(table)

	r.logOperation(
		ctx,
		logMsgBindingsRebuilt,
		logAttrBindings, table.Len(),
		logAttrDurationMS, toMilliseconds(duration),
	)
	r.recordDuration(ctx, metricRebuildDuration, duration, map[string]string{labelStatus: statusSuccess})
	r.incrementCounter(ctx, metricRebuildsTotal, map[string]string{
		spanAttrOperation: operationRebuild,
		labelStatus:       statusSuccess,
	})
	r.recordValue(ctx, metricBindings, float64(table.Len()), map[string]string{labelStatus: statusSuccess})

	return nil
}

// Bindings returns the active binding table.
func (r *Registry) Bindings() (*BindingTable, error) {
	table := r.active.Load()
	if table == nil {
		return nil, ErrBindingsNotBuilt
	}

	return table, nil
}

// Dispatcher returns a Dispatcher bound to the currently active binding table.
// It keeps using that table even if the Registry is rebuilt later.
func (r *Registry) Dispatcher() (Dispatcher, error) {
	table, err := r.Bindings()
	if err != nil {
		return Dispatcher{}, err
	}

	return NewDispatcher(table), nil
}

// Resolve dispatches the invocation through the active binding table.
func (r *Registry) Resolve(ctx context.Context, invocation Invocation) (Resolution, error) {
	ctx, span := r.startResolveSpan(ctx, invocation)
	start := time.Now()

	resolution, err := NewDispatcher(r.active.Load()).Resolve(invocation)
	duration := time.Since(start)

	if err != nil {
		errorType := resolveErrorType(err)

		r.logError(
			ctx,
			logMsgResolveFailed,
			err,
			logAttrMethod, invocation.method.QualifiedName(),
			logAttrEntity, invocation.entity.String(),
		)
		r.recordDuration(ctx, metricResolveDuration, duration, map[string]string{labelStatus: statusError})
		r.incrementCounter(ctx, metricResolveErrors, map[string]string{
			spanAttrOperation: operationResolve,
			spanAttrErrorType: errorType,
		})
		r.finishResolveSpan(span, statusError, duration, map[string]string{spanAttrErrorType: errorType})

		return Resolution{}, err
	}

	r.logDebug(
		ctx,
		logMsgInvocationResolved,
		logAttrMethod, invocation.method.QualifiedName(),
		logAttrConvention, resolution.convention,
		logAttrHasFilter, resolution.HasFilter(),
		logAttrHasUpdate, resolution.HasUpdate(),
		logAttrDurationMS, toMilliseconds(duration),
	)
	r.recordDuration(ctx, metricResolveDuration, duration, map[string]string{labelStatus: statusSuccess})
	r.incrementCounter(ctx, metricResolvesTotal, map[string]string{
		labelStatus:        statusSuccess,
		spanAttrConvention: resolution.convention,
	})
	r.finishResolveSpan(span, statusSuccess, duration, map[string]string{spanAttrConvention: resolution.convention})

	return resolution, nil
}

// Descriptors returns a sorted snapshot of the catalog.
func (r *Registry) Descriptors() []MethodDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.catalog.Descriptors()
}

// Conventions returns a snapshot of the convention set in registration order.
func (r *Registry) Conventions() []Convention {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.conventions.All()
}

func buildErrorType(err error) string {
	switch {
	case errors.Is(err, ErrNoMatchingConvention):
		return errorTypeNoMatch
	case errors.Is(err, ErrAmbiguousBinding):
		return errorTypeAmbiguous
	case errors.Is(err, ErrConflictingDeclaration):
		return errorTypeConflictingDecl
	default:
		return errorTypeUnknown
	}
}

func resolveErrorType(err error) string {
	switch {
	case errors.Is(err, ErrBindingsNotBuilt):
		return errorTypeBindingsNotBuilt
	case errors.Is(err, ErrUnboundMethod):
		return errorTypeUnbound
	case errors.Is(err, ErrEmptyGeneration):
		return errorTypeEmptyGeneration
	case errors.Is(err, ErrGenerationFailed):
		return errorTypeGenerationFailed
	default:
		return errorTypeUnknown
	}
}
