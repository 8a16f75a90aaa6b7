package conventions

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

const (
	prefixFindBy    = "FindBy"
	prefixSet       = "Set"
	prefixIncrement = "Increment"
	prefixUnset     = "Unset"
	suffixTo        = "To"
	suffixBy        = "By"
	suffixExists    = "Exists"
	suffixEqualTo   = "EqualTo"
	infixToWhere    = "ToWhere"
)

// comparisonSuffixes maps method name suffixes to filter operators.
// Longer suffixes come first, so "NotEqualTo" wins over "EqualTo".
var comparisonSuffixes = []struct {
	suffix   string
	operator querybuilder.FilterOperatorString
}{
	{"GreaterThanOrEqualTo", querybuilder.OperatorGreaterThanOrEqual},
	{"LessThanOrEqualTo", querybuilder.OperatorLessThanOrEqual},
	{"GreaterThan", querybuilder.OperatorGreaterThan},
	{"NotEqualTo", querybuilder.OperatorNotEqual},
	{"LessThan", querybuilder.OperatorLessThan},
	{"EqualTo", querybuilder.OperatorEqual},
	{"In", querybuilder.OperatorIn},
}

// between returns the non-empty part of name between prefix and suffix.
func between(name, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return "", false
	}

	if len(name) <= len(prefix)+len(suffix) {
		return "", false
	}

	return name[len(prefix) : len(name)-len(suffix)], true
}

// comparisonField splits "FindBy<Field><Comparison>" and resolves the field against the entity.
// A suffix whose remaining segment is not a field of the entity gives way to the next shorter one,
// so a field called "LoggedIn" still works with "FindByLoggedInEqualTo".
func comparisonField(
	entity querybuilder.EntityType,
	name string,
) (entityField, querybuilder.FilterOperatorString, bool) {
	for _, candidate := range comparisonSuffixes {
		segment, ok := between(name, prefixFindBy, candidate.suffix)
		if !ok {
			continue
		}

		if field, found := lookupField(entity, segment); found {
			return field, candidate.operator, true
		}
	}

	return entityField{}, "", false
}

// singleField resolves "<prefix><Field><suffix>" against the entity.
func singleField(entity querybuilder.EntityType, name, prefix, suffix string) (entityField, bool) {
	segment, ok := between(name, prefix, suffix)
	if !ok {
		return entityField{}, false
	}

	return lookupField(entity, segment)
}

// setWhereFields resolves "Set<Target>ToWhere<Key>EqualTo" against the entity.
func setWhereFields(entity querybuilder.EntityType, name string) (entityField, entityField, bool) {
	inner, ok := between(name, prefixSet, suffixEqualTo)
	if !ok {
		return entityField{}, entityField{}, false
	}

	targetSegment, keySegment, found := strings.Cut(inner, infixToWhere)
	if !found {
		return entityField{}, entityField{}, false
	}

	target, targetFound := lookupField(entity, targetSegment)
	key, keyFound := lookupField(entity, keySegment)

	if !targetFound || !keyFound {
		return entityField{}, entityField{}, false
	}

	return target, key, true
}

func unknownField(invocation querybuilder.Invocation) error {
	return fmt.Errorf(
		"%w: %s does not address a field of %s",
		ErrUnknownField,
		invocation.Method().QualifiedName(),
		invocation.Entity(),
	)
}
