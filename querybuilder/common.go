package querybuilder

import (
	"errors"
)

var ErrNoMatchingConvention = errors.New("no matching convention")
var ErrAmbiguousBinding = errors.New("ambiguous convention binding")
var ErrConflictingDeclaration = errors.New("method declared for more than one entity type")
var ErrUnboundMethod = errors.New("method is not bound to a convention")
var ErrEmptyGeneration = errors.New("convention generated neither a filter nor an update")
var ErrGenerationFailed = errors.New("convention failed to generate expression")
var ErrBindingsNotBuilt = errors.New("binding table has not been built")
var ErrNilConvention = errors.New("nil convention supplied")
var ErrEmptyConventionName = errors.New("convention name must not be empty")
var ErrEmptyModuleName = errors.New("module name must not be empty")
var ErrInvalidBuilderDeclaration = errors.New("invalid query builder declaration")
var ErrMethodNotDeclared = errors.New("method is not declared on the query builder interface")
