package querybuilder

import (
	"cmp"
	"slices"
)

type UpdateOperatorString = string

// Update operators, named after their document store counterparts.
const (
	OperatorSet       UpdateOperatorString = "$set"
	OperatorUnset     UpdateOperatorString = "$unset"
	OperatorIncrement UpdateOperatorString = "$inc"
)

/***** Update *****/

// Update describes how matched documents change.
type Update struct {
	mutations []Mutation
}

func (u Update) Mutations() []Mutation {
	return u.mutations
}

func (u Update) IsEmpty() bool {
	return len(u.mutations) == 0
}

/***** Mutation *****/

type Mutation struct {
	operator UpdateOperatorString
	field    FilterFieldString
	value    any
}

func (m Mutation) Operator() UpdateOperatorString {
	return m.operator
}

func (m Mutation) Field() FilterFieldString {
	return m.field
}

// Value is nil for OperatorUnset.
func (m Mutation) Value() any {
	return m.value
}

/***** UpdateBuilder *****/

type UpdateBuilder interface {
	// Set assigns value to field.
	Set(field FilterFieldString, value any) UpdateBuilder

	// Unset removes field.
	Unset(field FilterFieldString) UpdateBuilder

	// Inc adds the numeric amount to field, treating a missing field as 0.
	Inc(field FilterFieldString, amount any) UpdateBuilder

	// Finalize returns the Update.
	Finalize() Update
}

type updateBuilder struct {
	mutations []Mutation
}

// BuildUpdate creates an UpdateBuilder which must eventually be finalized with Finalize().
func BuildUpdate() UpdateBuilder {
	return updateBuilder{}
}

func (ub updateBuilder) Set(field FilterFieldString, value any) UpdateBuilder {
	return ub.with(Mutation{operator: OperatorSet, field: field, value: value})
}

func (ub updateBuilder) Unset(field FilterFieldString) UpdateBuilder {
	return ub.with(Mutation{operator: OperatorUnset, field: field})
}

func (ub updateBuilder) Inc(field FilterFieldString, amount any) UpdateBuilder {
	return ub.with(Mutation{operator: OperatorIncrement, field: field, value: amount})
}

func (ub updateBuilder) with(mutation Mutation) updateBuilder {
	ub.mutations = append(slices.Clip(ub.mutations), mutation)

	return ub
}

// Finalize returns the Update.
//
// It sanitizes the mutations:
//   - removing Mutations with an empty field
//   - keeping only the last Mutation per field
//   - sorting the Mutations by operator and field
func (ub updateBuilder) Finalize() Update {
	lastPerField := make(map[FilterFieldString]Mutation, len(ub.mutations))
	for _, mutation := range ub.mutations {
		if mutation.field == "" {
			continue
		}

		lastPerField[mutation.field] = mutation
	}

	mutations := make([]Mutation, 0, len(lastPerField))
	for _, mutation := range lastPerField {
		mutations = append(mutations, mutation)
	}

	slices.SortFunc(mutations, func(a, b Mutation) int {
		return cmp.Or(cmp.Compare(a.operator, b.operator), cmp.Compare(a.field, b.field))
	})

	return Update{mutations: mutations}
}
