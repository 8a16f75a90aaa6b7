package querybuilder

import (
	"cmp"
	"reflect"
	"slices"
)

type FilterFieldString = string
type FilterOperatorString = string

// Filter operators, named after their document store counterparts.
const (
	OperatorEqual              FilterOperatorString = "$eq"
	OperatorNotEqual           FilterOperatorString = "$ne"
	OperatorGreaterThan        FilterOperatorString = "$gt"
	OperatorGreaterThanOrEqual FilterOperatorString = "$gte"
	OperatorLessThan           FilterOperatorString = "$lt"
	OperatorLessThanOrEqual    FilterOperatorString = "$lte"
	OperatorIn                 FilterOperatorString = "$in"
	OperatorExists             FilterOperatorString = "$exists"
)

/***** Filter *****/

// Filter describes which documents to match. It is a conjunction of Conditions,
// or a disjunction if AnyConditionMustMatch is true. The zero Filter matches every document.
type Filter struct {
	conditions            []Condition
	anyConditionMustMatch bool
}

func (f Filter) Conditions() []Condition {
	return f.conditions
}

func (f Filter) AnyConditionMustMatch() bool {
	return f.anyConditionMustMatch
}

func (f Filter) IsEmpty() bool {
	return len(f.conditions) == 0
}

/***** Condition *****/

type Condition struct {
	field    FilterFieldString
	operator FilterOperatorString
	value    any
}

func (c Condition) Field() FilterFieldString {
	return c.field
}

func (c Condition) Operator() FilterOperatorString {
	return c.operator
}

func (c Condition) Value() any {
	return c.value
}

// Eq matches documents where field equals value.
func Eq(field FilterFieldString, value any) Condition {
	return Condition{field: field, operator: OperatorEqual, value: value}
}

func Ne(field FilterFieldString, value any) Condition {
	return Condition{field: field, operator: OperatorNotEqual, value: value}
}

func Gt(field FilterFieldString, value any) Condition {
	return Condition{field: field, operator: OperatorGreaterThan, value: value}
}

func Gte(field FilterFieldString, value any) Condition {
	return Condition{field: field, operator: OperatorGreaterThanOrEqual, value: value}
}

func Lt(field FilterFieldString, value any) Condition {
	return Condition{field: field, operator: OperatorLessThan, value: value}
}

func Lte(field FilterFieldString, value any) Condition {
	return Condition{field: field, operator: OperatorLessThanOrEqual, value: value}
}

// In matches documents where field equals any of the values.
func In(field FilterFieldString, values ...any) Condition {
	return Condition{field: field, operator: OperatorIn, value: slices.Clone(values)}
}

// Exists matches documents that have (or, with exists=false, lack) the field.
func Exists(field FilterFieldString, exists bool) Condition {
	return Condition{field: field, operator: OperatorExists, value: exists}
}

/***** FilterBuilder *****/

// FilterBuilder builds a document Filter. Only two shapes are possible:
//
//   - (condition AND condition...)
//   - (condition OR condition...)
//
// Mixing And and Or in one Filter is prevented by the returned builder types.
type FilterBuilder interface {
	// Where starts the Filter with its first Condition.
	Where(condition Condition) OpenFilterBuilder

	// MatchingAnyDocument directly creates an empty Filter.
	MatchingAnyDocument() Filter
}

type OpenFilterBuilder interface {
	// And adds a Condition which must match in addition to all others.
	And(condition Condition) ConjunctionFilterBuilder

	// Or adds a Condition which may match instead of the others.
	Or(condition Condition) DisjunctionFilterBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type ConjunctionFilterBuilder interface {
	And(condition Condition) ConjunctionFilterBuilder
	Finalize() Filter
}

type DisjunctionFilterBuilder interface {
	Or(condition Condition) DisjunctionFilterBuilder
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter Filter
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyDocument().
func BuildFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Where(condition Condition) OpenFilterBuilder {
	fb.filter.conditions = []Condition{condition}

	return fb
}

func (fb filterBuilder) And(condition Condition) ConjunctionFilterBuilder {
	fb.filter.conditions = append(slices.Clip(fb.filter.conditions), condition)

	return fb
}

func (fb filterBuilder) Or(condition Condition) DisjunctionFilterBuilder {
	fb.filter.anyConditionMustMatch = true
	fb.filter.conditions = append(slices.Clip(fb.filter.conditions), condition)

	return fb
}

func (fb filterBuilder) MatchingAnyDocument() Filter {
	return Filter{}
}

// Finalize returns the Filter.
//
// It sanitizes the conditions:
//   - removing Conditions with an empty field
//   - sorting the Conditions by field and operator
//   - removing duplicate Conditions
func (fb filterBuilder) Finalize() Filter {
	return Filter{
		conditions:            sanitizeConditions(fb.filter.conditions),
		anyConditionMustMatch: fb.filter.anyConditionMustMatch,
	}
}

func sanitizeConditions(conditions []Condition) []Condition {
	sanitized := slices.DeleteFunc(slices.Clone(conditions), func(c Condition) bool {
		return c.field == ""
	})

	slices.SortStableFunc(sanitized, func(a, b Condition) int {
		return cmp.Or(cmp.Compare(a.field, b.field), cmp.Compare(a.operator, b.operator))
	})

	// values may be slices, so == would panic
	sanitized = slices.CompactFunc(sanitized, func(a, b Condition) bool {
		return a.field == b.field && a.operator == b.operator && reflect.DeepEqual(a.value, b.value)
	})

	return slices.Clip(sanitized)
}
