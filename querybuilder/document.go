package querybuilder

import (
	jsoniter "github.com/json-iterator/go"
)

const (
	documentKeyAnd = "$and"
	documentKeyOr  = "$or"
)

var documentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Document renders the Filter in document store query syntax:
//
//	{"email": "a@b.com", "age": {"$gte": 18}}
//	{"$or": [{"status": "active"}, {"status": "pending"}]}
//
// Equality is rendered as the plain value unless the field carries more than one condition.
func (f Filter) Document() map[string]any {
	if f.IsEmpty() {
		return map[string]any{}
	}

	if f.anyConditionMustMatch {
		return map[string]any{documentKeyOr: conditionDocuments(f.conditions)}
	}

	document := make(map[string]any, len(f.conditions))
	operatorsPerField := make(map[string]map[string]any)

	for _, condition := range f.conditions {
		operators, seen := operatorsPerField[condition.field]
		if !seen {
			operators = make(map[string]any)
			operatorsPerField[condition.field] = operators
		}

		if _, clash := operators[condition.operator]; clash {
			// the same operator twice on one field cannot be merged into one object
			return map[string]any{documentKeyAnd: conditionDocuments(f.conditions)}
		}

		operators[condition.operator] = condition.value
	}

	for field, operators := range operatorsPerField {
		if value, isEquality := operators[OperatorEqual]; isEquality && len(operators) == 1 {
			document[field] = value
			continue
		}

		document[field] = operators
	}

	return document
}

func conditionDocuments(conditions []Condition) []any {
	documents := make([]any, 0, len(conditions))
	for _, condition := range conditions {
		documents = append(documents, condition.Document())
	}

	return documents
}

// Document renders a single Condition, e.g. {"age": {"$gt": 18}} or {"email": "a@b.com"}.
func (c Condition) Document() map[string]any {
	if c.operator == OperatorEqual {
		return map[string]any{c.field: c.value}
	}

	return map[string]any{c.field: map[string]any{c.operator: c.value}}
}

// MarshalJSON renders Document() as JSON with sorted keys.
func (f Filter) MarshalJSON() ([]byte, error) {
	return documentJSON.Marshal(f.Document())
}

// Document renders the Update in document store update syntax:
//
//	{"$set": {"status": "archived"}, "$inc": {"logins": 1}, "$unset": {"token": ""}}
func (u Update) Document() map[string]any {
	document := make(map[string]any)

	for _, mutation := range u.mutations {
		fields, ok := document[mutation.operator].(map[string]any)
		if !ok {
			fields = make(map[string]any)
			document[mutation.operator] = fields
		}

		if mutation.operator == OperatorUnset {
			fields[mutation.field] = ""
			continue
		}

		fields[mutation.field] = mutation.value
	}

	return document
}

// MarshalJSON renders Document() as JSON with sorted keys.
func (u Update) MarshalJSON() ([]byte, error) {
	return documentJSON.Marshal(u.Document())
}
