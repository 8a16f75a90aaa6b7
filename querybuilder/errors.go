package querybuilder

import (
	"fmt"
	"strings"
)

// NoMatchingConventionError is returned by BuildBindingTable when declared methods match no convention.
// Descriptor is the first unmatched method in catalog order, Unmatched lists all of them.
type NoMatchingConventionError struct {
	Descriptor MethodDescriptor
	Unmatched  []MethodDescriptor
}

func (e *NoMatchingConventionError) Error() string {
	msg := fmt.Sprintf("%s for method %s", ErrNoMatchingConvention, e.Descriptor)

	if len(e.Unmatched) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Unmatched)-1)
	}

	return msg
}

func (e *NoMatchingConventionError) Unwrap() error {
	return ErrNoMatchingConvention
}

// AmbiguousBindingError is returned by BuildBindingTable under RejectAmbiguous
// when more than one convention matches a method.
type AmbiguousBindingError struct {
	Descriptor  MethodDescriptor
	Conventions []string
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf(
		"%s for method %s: %s",
		ErrAmbiguousBinding,
		e.Descriptor,
		strings.Join(e.Conventions, ", "),
	)
}

func (e *AmbiguousBindingError) Unwrap() error {
	return ErrAmbiguousBinding
}

// ConflictingDeclarationError is returned by BuildBindingTable when one interface method
// was declared as query builder for different entity types.
type ConflictingDeclarationError struct {
	Method   MethodSignature
	Entities []EntityType
}

func (e *ConflictingDeclarationError) Error() string {
	entities := make([]string, 0, len(e.Entities))
	for _, entity := range e.Entities {
		entities = append(entities, entity.String())
	}

	return fmt.Sprintf("%s: %s declared for %s", ErrConflictingDeclaration, e.Method, strings.Join(entities, ", "))
}

func (e *ConflictingDeclarationError) Unwrap() error {
	return ErrConflictingDeclaration
}

// UnboundMethodError is returned when an invocation targets a method the binding table does not know.
type UnboundMethodError struct {
	Method MethodSignature
	Entity EntityType
}

func (e *UnboundMethodError) Error() string {
	if e.Entity.IsZero() {
		return fmt.Sprintf("%s: %s", ErrUnboundMethod, e.Method)
	}

	return fmt.Sprintf("%s: %s for entity %s", ErrUnboundMethod, e.Method, e.Entity)
}

func (e *UnboundMethodError) Unwrap() error {
	return ErrUnboundMethod
}

// EmptyGenerationError is returned when the bound convention produced neither a filter nor an update.
type EmptyGenerationError struct {
	Method     MethodSignature
	Convention string
}

func (e *EmptyGenerationError) Error() string {
	return fmt.Sprintf("%s: convention %q for method %s", ErrEmptyGeneration, e.Convention, e.Method)
}

func (e *EmptyGenerationError) Unwrap() error {
	return ErrEmptyGeneration
}
