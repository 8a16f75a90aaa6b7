package querybuilder

import (
	"slices"
)

// Invocation records one call of a query builder method: the method that was called, the entity its
// interface targets, and the argument values in call order. Invocations are immutable values.
type Invocation struct {
	entity EntityType
	method MethodSignature
	args   []any
}

// NewInvocation builds an Invocation. The args slice is copied.
func NewInvocation(entity EntityType, method MethodSignature, args ...any) Invocation {
	return Invocation{
		entity: entity,
		method: method,
		args:   slices.Clone(args),
	}
}

// NewInvocationFor builds an Invocation for the method called methodName of a declared query builder.
// It fails with ErrMethodNotDeclared if the interface has no such method.
func NewInvocationFor(declaration BuilderDeclaration, methodName string, args ...any) (Invocation, error) {
	method, err := declaration.Method(methodName)
	if err != nil {
		return Invocation{}, err
	}

	return NewInvocation(declaration.Entity(), method, args...), nil
}

func (i Invocation) Entity() EntityType {
	return i.entity
}

func (i Invocation) Method() MethodSignature {
	return i.method
}

// Descriptor returns the catalog identity of the invoked method.
func (i Invocation) Descriptor() MethodDescriptor {
	return NewMethodDescriptor(i.entity, i.method)
}

// Args returns a copy of the argument values.
func (i Invocation) Args() []any {
	return slices.Clone(i.args)
}

// Arg returns the n-th argument and whether it exists.
func (i Invocation) Arg(n int) (any, bool) {
	if n < 0 || n >= len(i.args) {
		return nil, false
	}

	return i.args[n], true
}

func (i Invocation) NumArgs() int {
	return len(i.args)
}
