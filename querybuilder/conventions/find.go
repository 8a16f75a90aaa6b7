package conventions

import (
	"reflect"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

/***** FindByFieldComparison *****/

// FindByFieldComparison handles methods shaped "FindBy<Field><Comparison>(value)", e.g.
// FindByEmailEqualTo(string) or FindByAgeGreaterThan(int). The "In" comparison takes a slice.
// It generates a filter with one Condition and no update.
type FindByFieldComparison struct{}

func (FindByFieldComparison) Name() string {
	return "FindByFieldComparison"
}

func (FindByFieldComparison) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	field, operator, ok := comparisonField(entity, method.Name())
	if !ok || method.NumParams() != 1 {
		return false
	}

	param := method.Param(0)

	if operator == querybuilder.OperatorIn {
		return param.Kind() == reflect.Slice && field.accepts(param.Elem())
	}

	return field.accepts(param)
}

func (FindByFieldComparison) GenerateFilter(invocation querybuilder.Invocation) (*querybuilder.Filter, error) {
	field, operator, ok := comparisonField(invocation.Entity(), invocation.Method().Name())
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 1); err != nil {
		return nil, err
	}

	var condition querybuilder.Condition

	if operator == querybuilder.OperatorIn {
		values, err := sliceArg(invocation, 0, field)
		if err != nil {
			return nil, err
		}

		condition = querybuilder.In(field.document, values...)
	} else {
		value, err := argFor(invocation, 0, field)
		if err != nil {
			return nil, err
		}

		condition = comparison(operator, field.document, value)
	}

	filter := querybuilder.BuildFilter().Where(condition).Finalize()

	return &filter, nil
}

func (FindByFieldComparison) GenerateUpdate(querybuilder.Invocation) (*querybuilder.Update, error) {
	return nil, nil
}

func comparison(operator querybuilder.FilterOperatorString, field string, value any) querybuilder.Condition {
	switch operator {
	case querybuilder.OperatorNotEqual:
		return querybuilder.Ne(field, value)
	case querybuilder.OperatorGreaterThan:
		return querybuilder.Gt(field, value)
	case querybuilder.OperatorGreaterThanOrEqual:
		return querybuilder.Gte(field, value)
	case querybuilder.OperatorLessThan:
		return querybuilder.Lt(field, value)
	case querybuilder.OperatorLessThanOrEqual:
		return querybuilder.Lte(field, value)
	default:
		return querybuilder.Eq(field, value)
	}
}

/***** FindByFieldExists *****/

// FindByFieldExists handles "FindBy<Field>Exists(bool)": documents that have the field, or lack it.
type FindByFieldExists struct{}

func (FindByFieldExists) Name() string {
	return "FindByFieldExists"
}

func (FindByFieldExists) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	if _, ok := singleField(entity, method.Name(), prefixFindBy, suffixExists); !ok {
		return false
	}

	return method.NumParams() == 1 && method.Param(0).Kind() == reflect.Bool
}

func (FindByFieldExists) GenerateFilter(invocation querybuilder.Invocation) (*querybuilder.Filter, error) {
	field, ok := singleField(invocation.Entity(), invocation.Method().Name(), prefixFindBy, suffixExists)
	if !ok {
		return nil, unknownField(invocation)
	}

	if err := expectArgCount(invocation, 1); err != nil {
		return nil, err
	}

	arg, _ := invocation.Arg(0)

	exists, isBool := arg.(bool)
	if !isBool {
		return nil, argumentTypeError(invocation, 0, "bool", arg)
	}

	filter := querybuilder.BuildFilter().Where(querybuilder.Exists(field.document, exists)).Finalize()

	return &filter, nil
}

func (FindByFieldExists) GenerateUpdate(querybuilder.Invocation) (*querybuilder.Update, error) {
	return nil, nil
}
