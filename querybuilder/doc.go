// Package querybuilder turns intent-revealing method declarations into document store expressions.
//
// Callers declare an interface of query builder methods for an entity type, e.g.
//
//	type UserQueries interface {
//		FindByEmailEqualTo(email string) querybuilder.Resolution
//		SetStatusTo(status string) querybuilder.Resolution
//	}
//
// and register it together with conventions, stateless rules that recognize method shapes
// and generate a Filter and/or an Update for each call.
//
// Key types:
//   - Module: the unit of registration (builder declarations + conventions)
//   - Catalog: the deduplicated set of declared methods (MethodDescriptor)
//   - ConventionSet: the deduplicated, ordered set of Conventions
//   - BindingTable: the sealed mapping from every method to exactly one Convention
//   - Dispatcher: resolves an Invocation into a Resolution (Filter, Update)
//   - Registry: owns all of the above, supports incremental loading and atomic rebuilds
//
// Common usage pattern:
//
//	registry, _ := querybuilder.NewRegistry(querybuilder.WithLogger(slog.Default()))
//
//	err := registry.Load(
//		querybuilder.NewModule("users").
//			WithBuilders(querybuilder.DeclareBuilder[User, UserQueries]()).
//			WithConventions(conventions.Standard()...),
//	)
//	if err != nil {
//		// a declared method matches no convention
//	}
//
//	invocation, _ := querybuilder.NewInvocationFor(declaration, "FindByEmailEqualTo", "a@b.com")
//	resolution, err := registry.Resolve(ctx, invocation)
//	// resolution.Filter().Document() == {"email": "a@b.com"}
//
// Binding follows first-match-wins: if several conventions match a method, the earliest
// registered one is bound. Use WithAmbiguityPolicy(RejectAmbiguous) to make that an error.
package querybuilder
