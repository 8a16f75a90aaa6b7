package postgresengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

const (
	defaultTableName = "documents"
	dialectPostgres  = "postgres"
	colID            = "id"
	colEntityType    = "entity_type"
	colDocument      = "document"
	colCreatedAt     = "created_at"
	colUpdatedAt     = "updated_at"
	sqlNow           = "NOW()"
	sqlFalse         = "FALSE"
	exprContains     = "? @> ?::jsonb"
	exprCompare      = "? -> ? %s ?::jsonb"
	exprFieldExists  = "? -> ? IS NOT NULL"
	exprFieldMissing = "? -> ? IS NULL"
	exprMerge        = "? || ?::jsonb"
	exprRemoveKey    = "? - ?"
	exprIncrement    = "jsonb_set(?, ?::text[], to_jsonb(COALESCE((? ->> ?)::numeric, 0) + ?))"
	exprJSONB        = "?::jsonb"
	exprText         = "?::text"
)

type sqlQueryString = string

// documentJSON sorts map keys, so rendered statements are stable.
var documentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// comparisonOperators maps filter operators to jsonb comparison operators.
// jsonb orders numbers numerically and strings lexically.
var comparisonOperators = map[querybuilder.FilterOperatorString]string{
	querybuilder.OperatorGreaterThan:        ">",
	querybuilder.OperatorGreaterThanOrEqual: ">=",
	querybuilder.OperatorLessThan:           "<",
	querybuilder.OperatorLessThanOrEqual:    "<=",
}

// Statements renders filters and updates as PostgreSQL statements against the documents table:
//
//	CREATE TABLE documents (
//	    id          uuid PRIMARY KEY,
//	    entity_type text NOT NULL,
//	    document    jsonb NOT NULL,
//	    created_at  timestamptz NOT NULL DEFAULT NOW(),
//	    updated_at  timestamptz NOT NULL DEFAULT NOW()
//	);
//
// Every statement is scoped to one entity type. Fields address top-level document keys.
type Statements struct {
	tableName string
}

// NewStatements creates Statements for the given table; an empty name selects the default "documents".
func NewStatements(tableName string) Statements {
	if tableName == "" {
		tableName = defaultTableName
	}

	return Statements{tableName: tableName}
}

func (s Statements) TableName() string {
	return s.tableName
}

// CreateTable returns the DDL for the documents table.
func (s Statements) CreateTable() sqlQueryString {
	table := s.quotedTableName()

	return fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
	%s uuid PRIMARY KEY,
	%s text NOT NULL,
	%s jsonb NOT NULL,
	%s timestamptz NOT NULL DEFAULT NOW(),
	%s timestamptz NOT NULL DEFAULT NOW()
)`,
		table, colID, colEntityType, colDocument, colCreatedAt, colUpdatedAt,
	)
}

// quotedTableName splits the table name on dots the way goqu parses identifiers,
// so "app.documents" addresses the same table in the DDL as in every other statement.
func (s Statements) quotedTableName() string {
	identifier := exp.ParseIdentifier(s.tableName)

	parts := make([]string, 0, 3)
	for _, part := range []string{identifier.GetSchema(), identifier.GetTable()} {
		if part != "" {
			parts = append(parts, quoteIdentifier(part))
		}
	}

	if col, ok := identifier.GetCol().(string); ok && col != "" {
		parts = append(parts, quoteIdentifier(col))
	}

	return strings.Join(parts, ".")
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Insert renders the insert of one document.
func (s Statements) Insert(entity querybuilder.EntityType, id uuid.UUID, document []byte) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(goqu.Record{
			colID:         id.String(),
			colEntityType: entity.String(),
			colDocument:   goqu.L(exprJSONB, string(document)),
		})

	return toSQL(insertStmt)
}

// Select renders the query for all documents of the entity that match the filter, oldest first.
// A nil filter matches every document of the entity.
func (s Statements) Select(entity querybuilder.EntityType, filter *querybuilder.Filter) (sqlQueryString, error) {
	where, err := s.where(entity, filter)
	if err != nil {
		return "", err
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(
			goqu.L(exprText, goqu.I(colID)).As(colID),
			goqu.L(exprText, goqu.I(colDocument)).As(colDocument),
			colCreatedAt,
		).
		Where(where).
		Order(goqu.C(colCreatedAt).Asc(), goqu.C(colID).Asc())

	return toSQL(selectStmt)
}

// Count renders the query counting the documents of the entity that match the filter.
func (s Statements) Count(entity querybuilder.EntityType, filter *querybuilder.Filter) (sqlQueryString, error) {
	where, err := s.where(entity, filter)
	if err != nil {
		return "", err
	}

	countStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(where)

	return toSQL(countStmt)
}

// Delete renders the deletion of the documents of the entity that match the filter.
func (s Statements) Delete(entity querybuilder.EntityType, filter *querybuilder.Filter) (sqlQueryString, error) {
	where, err := s.where(entity, filter)
	if err != nil {
		return "", err
	}

	return toSQL(goqu.Dialect(dialectPostgres).Delete(s.tableName).Where(where))
}

// Update renders the update of the documents of the entity that match the filter.
func (s Statements) Update(
	entity querybuilder.EntityType,
	filter *querybuilder.Filter,
	update querybuilder.Update,
) (sqlQueryString, error) {

	if update.IsEmpty() {
		return "", ErrEmptyUpdate
	}

	where, err := s.where(entity, filter)
	if err != nil {
		return "", err
	}

	document, err := documentExpression(update)
	if err != nil {
		return "", err
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.tableName).
		Set(goqu.Record{
			colDocument:  document,
			colUpdatedAt: goqu.L(sqlNow),
		}).
		Where(where)

	return toSQL(updateStmt)
}

// ForResolution renders the statement a resolution stands for:
// the update if the resolution has one, otherwise the select.
func (s Statements) ForResolution(resolution querybuilder.Resolution) (sqlQueryString, error) {
	switch {
	case resolution.HasUpdate():
		return s.Update(resolution.Entity(), resolution.Filter(), *resolution.Update())
	case resolution.HasFilter():
		return s.Select(resolution.Entity(), resolution.Filter())
	default:
		return "", ErrNothingToExecute
	}
}

func (s Statements) where(entity querybuilder.EntityType, filter *querybuilder.Filter) (exp.Expression, error) {
	entityCondition := goqu.C(colEntityType).Eq(entity.String())

	if filter == nil || filter.IsEmpty() {
		return entityCondition, nil
	}

	conditions := make([]exp.Expression, 0, len(filter.Conditions()))
	for _, condition := range filter.Conditions() {
		expression, err := conditionExpression(condition)
		if err != nil {
			return nil, err
		}

		conditions = append(conditions, expression)
	}

	if filter.AnyConditionMustMatch() {
		return goqu.And(entityCondition, goqu.Or(conditions...)), nil
	}

	return goqu.And(append([]exp.Expression{entityCondition}, conditions...)...), nil
}

func conditionExpression(condition querybuilder.Condition) (exp.Expression, error) {
	document := goqu.I(colDocument)
	field := condition.Field()

	switch operator := condition.Operator(); operator {
	case querybuilder.OperatorEqual:
		return containment(field, condition.Value())

	case querybuilder.OperatorNotEqual:
		contains, err := containment(field, condition.Value())
		if err != nil {
			return nil, err
		}

		return goqu.L("NOT (?)", contains), nil

	case querybuilder.OperatorIn:
		values, _ := condition.Value().([]any)
		if len(values) == 0 {
			return goqu.L(sqlFalse), nil
		}

		alternatives := make([]exp.Expression, 0, len(values))
		for _, value := range values {
			contains, err := containment(field, value)
			if err != nil {
				return nil, err
			}

			alternatives = append(alternatives, contains)
		}

		return goqu.Or(alternatives...), nil

	case querybuilder.OperatorExists:
		if exists, _ := condition.Value().(bool); exists {
			return goqu.L(exprFieldExists, document, field), nil
		}

		return goqu.L(exprFieldMissing, document, field), nil

	default:
		sqlOperator, supported := comparisonOperators[operator]
		if !supported {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, operator)
		}

		value, err := marshal(condition.Value())
		if err != nil {
			return nil, err
		}

		return goqu.L(fmt.Sprintf(exprCompare, sqlOperator), document, field, value), nil
	}
}

// containment renders document @> '{"field": value}'.
func containment(field string, value any) (exp.Expression, error) {
	probe, err := marshal(map[string]any{field: value})
	if err != nil {
		return nil, err
	}

	return goqu.L(exprContains, goqu.I(colDocument), probe), nil
}

// documentExpression folds the mutations into one jsonb expression over the current document.
func documentExpression(update querybuilder.Update) (exp.Expression, error) {
	var current exp.Expression = goqu.I(colDocument)

	sets := make(map[string]any)
	for _, mutation := range update.Mutations() {
		if mutation.Operator() == querybuilder.OperatorSet {
			sets[mutation.Field()] = mutation.Value()
		}
	}

	if len(sets) > 0 {
		merged, err := marshal(sets)
		if err != nil {
			return nil, err
		}

		current = goqu.L(exprMerge, current, merged)
	}

	for _, mutation := range update.Mutations() {
		switch mutation.Operator() {
		case querybuilder.OperatorSet:
			continue

		case querybuilder.OperatorUnset:
			current = goqu.L(exprRemoveKey, current, mutation.Field())

		case querybuilder.OperatorIncrement:
			current = goqu.L(
				exprIncrement,
				current,
				"{"+mutation.Field()+"}",
				goqu.I(colDocument),
				mutation.Field(),
				mutation.Value(),
			)

		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, mutation.Operator())
		}
	}

	return current, nil
}

func marshal(value any) (string, error) {
	data, err := documentJSON.Marshal(value)
	if err != nil {
		return "", errors.Join(ErrMarshalingDocumentFailed, err)
	}

	return string(data), nil
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func toSQL(builder sqlBuilder) (sqlQueryString, error) {
	sqlQuery, _, err := builder.ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}
