package conventions

import (
	"reflect"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

/***** SetFieldTo *****/

// SetFieldTo handles "Set<Field>To(value)". It generates a $set update and no filter,
// so the update applies to whatever the caller selects.
type SetFieldTo struct{}

func (SetFieldTo) Name() string {
	return "SetFieldTo"
}

func (SetFieldTo) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	field, ok := singleField(entity, method.Name(), prefixSet, suffixTo)

	return ok && method.NumParams() == 1 && field.accepts(method.Param(0))
}

func (SetFieldTo) GenerateFilter(querybuilder.Invocation) (*querybuilder.Filter, error) {
	return nil, nil
}

func (SetFieldTo) GenerateUpdate(invocation querybuilder.Invocation) (*querybuilder.Update, error) {
	field, ok := singleField(invocation.Entity(), invocation.Method().Name(), prefixSet, suffixTo)
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 1); err != nil {
		return nil, err
	}

	value, err := argFor(invocation, 0, field)
	if err != nil {
		return nil, err
	}

	update := querybuilder.BuildUpdate().Set(field.document, value).Finalize()

	return &update, nil
}

/***** SetFieldToWhereFieldEqualTo *****/

// SetFieldToWhereFieldEqualTo handles "Set<Target>ToWhere<Key>EqualTo(target, key)".
// It generates both components: the filter selects by key, the update sets the target.
type SetFieldToWhereFieldEqualTo struct{}

func (SetFieldToWhereFieldEqualTo) Name() string {
	return "SetFieldToWhereFieldEqualTo"
}

func (SetFieldToWhereFieldEqualTo) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	target, key, ok := setWhereFields(entity, method.Name())
	if !ok || method.NumParams() != 2 {
		return false
	}

	return target.accepts(method.Param(0)) && key.accepts(method.Param(1))
}

func (SetFieldToWhereFieldEqualTo) GenerateFilter(invocation querybuilder.Invocation) (*querybuilder.Filter, error) {
	_, key, ok := setWhereFields(invocation.Entity(), invocation.Method().Name())
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 2); err != nil {
		return nil, err
	}

	value, err := argFor(invocation, 1, key)
	if err != nil {
		return nil, err
	}

	filter := querybuilder.BuildFilter().Where(querybuilder.Eq(key.document, value)).Finalize()

	return &filter, nil
}

func (SetFieldToWhereFieldEqualTo) GenerateUpdate(invocation querybuilder.Invocation) (*querybuilder.Update, error) {
	target, _, ok := setWhereFields(invocation.Entity(), invocation.Method().Name())
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 2); err != nil {
		return nil, err
	}

	value, err := argFor(invocation, 0, target)
	if err != nil {
		return nil, err
	}

	update := querybuilder.BuildUpdate().Set(target.document, value).Finalize()

	return &update, nil
}

/***** IncrementFieldBy *****/

// IncrementFieldBy handles "Increment<Field>By(amount)" for numeric fields.
type IncrementFieldBy struct{}

func (IncrementFieldBy) Name() string {
	return "IncrementFieldBy"
}

func (IncrementFieldBy) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	field, ok := singleField(entity, method.Name(), prefixIncrement, suffixBy)
	if !ok || !field.isNumeric() || method.NumParams() != 1 {
		return false
	}

	return field.acceptsAmount(method.Param(0))
}

func (IncrementFieldBy) GenerateFilter(querybuilder.Invocation) (*querybuilder.Filter, error) {
	return nil, nil
}

func (IncrementFieldBy) GenerateUpdate(invocation querybuilder.Invocation) (*querybuilder.Update, error) {
	field, ok := singleField(invocation.Entity(), invocation.Method().Name(), prefixIncrement, suffixBy)
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 1); err != nil {
		return nil, err
	}

	amount, _ := invocation.Arg(0)
	if !field.acceptsAmount(reflect.TypeOf(amount)) {
		expected := "a number"
		if !isFloatKind(derefType(field.typ).Kind()) {
			expected = "an integer"
		}

		return nil, argumentTypeError(invocation, 0, expected, amount)
	}

	update := querybuilder.BuildUpdate().Inc(field.document, amount).Finalize()

	return &update, nil
}

/***** UnsetField *****/

// UnsetField handles "Unset<Field>()".
type UnsetField struct{}

func (UnsetField) Name() string {
	return "UnsetField"
}

func (UnsetField) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	_, ok := singleField(entity, method.Name(), prefixUnset, "")

	return ok && method.NumParams() == 0
}

func (UnsetField) GenerateFilter(querybuilder.Invocation) (*querybuilder.Filter, error) {
	return nil, nil
}

func (UnsetField) GenerateUpdate(invocation querybuilder.Invocation) (*querybuilder.Update, error) {
	field, ok := singleField(invocation.Entity(), invocation.Method().Name(), prefixUnset, "")
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 0); err != nil {
		return nil, err
	}

	update := querybuilder.BuildUpdate().Unset(field.document).Finalize()

	return &update, nil
}
