package querybuilder

import (
	"reflect"
	"slices"
)

// Convention is a stateless rule that recognizes a method shape and generates
// the filter and/or update expression for invocations of such methods.
//
// Implementations must be safe for concurrent use; they are shared by all dispatches.
// Either generator may return nil to state that the method has no such component.
type Convention interface {
	// Name identifies the convention; the ConventionSet keeps one convention per name.
	Name() string

	// Matches reports whether the convention can handle the method declared for the entity.
	Matches(entity EntityType, method MethodSignature) bool

	// GenerateFilter returns the filter component for the invocation, or nil.
	GenerateFilter(invocation Invocation) (*Filter, error)

	// GenerateUpdate returns the update component for the invocation, or nil.
	GenerateUpdate(invocation Invocation) (*Update, error)
}

// ConventionSet holds conventions deduplicated by name, in registration order.
// It is not safe for concurrent mutation.
type ConventionSet struct {
	conventions []Convention
	names       map[string]struct{}
}

func NewConventionSet() *ConventionSet {
	return &ConventionSet{names: make(map[string]struct{})}
}

// Add appends the convention unless one with the same name is already present.
// It reports whether the convention was added.
func (s *ConventionSet) Add(convention Convention) (bool, error) {
	if err := validateConvention(convention); err != nil {
		return false, err
	}

	name := convention.Name()
	if _, exists := s.names[name]; exists {
		return false, nil
	}

	s.names[name] = struct{}{}
	s.conventions = append(s.conventions, convention)

	return true, nil
}

// validateConvention rejects nil conventions, including typed nil pointers, and empty names.
func validateConvention(convention Convention) error {
	if convention == nil {
		return ErrNilConvention
	}

	switch value := reflect.ValueOf(convention); value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if value.IsNil() {
			return ErrNilConvention
		}
	}

	if convention.Name() == "" {
		return ErrEmptyConventionName
	}

	return nil
}

// Discover adds the conventions of all modules in order and returns the ones that were new.
func (s *ConventionSet) Discover(modules ...Module) ([]Convention, error) {
	added := make([]Convention, 0)

	for _, module := range modules {
		for _, convention := range module.conventions {
			isNew, err := s.Add(convention)
			if err != nil {
				return added, err
			}

			if isNew {
				added = append(added, convention)
			}
		}
	}

	return added, nil
}

// All returns the conventions in registration order.
func (s *ConventionSet) All() []Convention {
	return slices.Clone(s.conventions)
}

func (s *ConventionSet) Len() int {
	return len(s.conventions)
}
