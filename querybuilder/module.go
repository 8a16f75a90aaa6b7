package querybuilder

import (
	"slices"
)

// Module is the unit of registration: a named set of query builder declarations and conventions
// supplied at startup. Modules replace runtime type scanning with an explicit list.
//
//	module := querybuilder.NewModule("users").
//		WithBuilders(querybuilder.DeclareBuilder[User, UserQueries]()).
//		WithConventions(conventions.Standard()...)
type Module struct {
	name        string
	builders    []BuilderDeclaration
	conventions []Convention
}

func NewModule(name string) Module {
	return Module{name: name}
}

func (m Module) Name() string {
	return m.name
}

// WithBuilders returns a copy of the Module with the declarations appended.
func (m Module) WithBuilders(declarations ...BuilderDeclaration) Module {
	m.builders = append(slices.Clip(m.builders), declarations...)

	return m
}

// WithConventions returns a copy of the Module with the conventions appended in order.
func (m Module) WithConventions(conventions ...Convention) Module {
	m.conventions = append(slices.Clip(m.conventions), conventions...)

	return m
}

func (m Module) Builders() []BuilderDeclaration {
	return slices.Clone(m.builders)
}

func (m Module) Conventions() []Convention {
	return slices.Clone(m.conventions)
}
