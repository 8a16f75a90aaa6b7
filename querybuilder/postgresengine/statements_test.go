package postgresengine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
	. "github.com/AntonStoeckl/convention-query-builder-go/querybuilder/postgresengine"
)

func Test_Statements_UseDefaultTableName(t *testing.T) {
	assert.Equal(t, "documents", NewStatements("").TableName())
	assert.Equal(t, "accounts", NewStatements("accounts").TableName())
}

func Test_Statements_CreateTable(t *testing.T) {
	// act
	ddl := NewStatements("").CreateTable()

	// assert
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "documents"`)
	assert.Contains(t, ddl, "id uuid PRIMARY KEY")
	assert.Contains(t, ddl, "entity_type text NOT NULL")
	assert.Contains(t, ddl, "document jsonb NOT NULL")
}

func Test_Statements_CreateTable_WithSchemaQualifiedName(t *testing.T) {
	// arrange
	statements := NewStatements("app.documents")
	filter := querybuilder.BuildFilter().Where(querybuilder.Eq("status", "locked")).Finalize()

	// act
	ddl := statements.CreateTable()
	selectQuery, err := statements.Select(querybuilder.EntityTypeOf[account](), &filter)

	// assert
	require.NoError(t, err)
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "app"."documents" (`)
	assert.NotContains(t, ddl, `"app.documents"`)
	assert.Contains(t, selectQuery, `FROM "app"."documents"`)
}

func Test_Statements_ForResolution_RendersFilters(t *testing.T) {
	registry := givenAccountRegistry(t)
	statements := NewStatements("")

	testCases := []struct {
		description string
		method      string
		args        []any
		expected    []string
	}{
		{
			description: "equality as containment",
			method:      "FindByEmailEqualTo",
			args:        []any{"a@b.com"},
			expected:    []string{`"document" @> '{"email":"a@b.com"}'::jsonb`},
		},
		{
			description: "inequality as negated containment",
			method:      "FindByEmailNotEqualTo",
			args:        []any{"a@b.com"},
			expected:    []string{`NOT ("document" @> '{"email":"a@b.com"}'::jsonb)`},
		},
		{
			description: "greater than as jsonb comparison",
			method:      "FindByVisitsGreaterThan",
			args:        []any{3},
			expected:    []string{`"document" -> 'visits' > '3'::jsonb`},
		},
		{
			description: "less than or equal as jsonb comparison",
			method:      "FindByVisitsLessThanOrEqualTo",
			args:        []any{7},
			expected:    []string{`"document" -> 'visits' <= '7'::jsonb`},
		},
		{
			description: "membership as alternative containments",
			method:      "FindByStatusIn",
			args:        []any{[]string{"active", "locked"}},
			expected: []string{
				`"document" @> '{"status":"active"}'::jsonb`,
				" OR ",
				`"document" @> '{"status":"locked"}'::jsonb`,
			},
		},
		{
			description: "empty membership matches nothing",
			method:      "FindByStatusIn",
			args:        []any{[]string{}},
			expected:    []string{"FALSE"},
		},
		{
			description: "existence",
			method:      "FindByNicknameExists",
			args:        []any{true},
			expected:    []string{`"document" -> 'nickname' IS NOT NULL`},
		},
		{
			description: "absence",
			method:      "FindByNicknameExists",
			args:        []any{false},
			expected:    []string{`"document" -> 'nickname' IS NULL`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			resolution := givenResolution(t, registry, tc.method, tc.args...)

			// act
			sqlQuery, err := statements.ForResolution(resolution)

			// assert
			require.NoError(t, err)
			assert.Contains(t, sqlQuery, `SELECT "id"::text AS "id", "document"::text AS "document", "created_at" FROM "documents"`)
			assert.Contains(t, sqlQuery, `"entity_type" = '`+accountEntity+`'`)
			assert.Contains(t, sqlQuery, `ORDER BY "created_at" ASC, "id" ASC`)

			for _, fragment := range tc.expected {
				assert.Contains(t, sqlQuery, fragment)
			}
		})
	}
}

func Test_Statements_ForResolution_RendersUpdates(t *testing.T) {
	registry := givenAccountRegistry(t)
	statements := NewStatements("accounts")

	testCases := []struct {
		description string
		method      string
		args        []any
		expected    []string
	}{
		{
			description: "set with filter",
			method:      "SetStatusToWhereEmailEqualTo",
			args:        []any{"locked", "a@b.com"},
			expected: []string{
				`"document" || '{"status":"locked"}'::jsonb`,
				`"document" @> '{"email":"a@b.com"}'::jsonb`,
			},
		},
		{
			description: "set without filter",
			method:      "SetStatusTo",
			args:        []any{"active"},
			expected:    []string{`"document" || '{"status":"active"}'::jsonb`},
		},
		{
			description: "increment treats missing field as zero",
			method:      "IncrementVisitsBy",
			args:        []any{2},
			expected: []string{
				`jsonb_set("document", '{visits}'::text[], to_jsonb(COALESCE(("document" ->> 'visits')::numeric, 0) + 2))`,
			},
		},
		{
			description: "unset",
			method:      "UnsetNickname",
			expected:    []string{`"document" - 'nickname'`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			resolution := givenResolution(t, registry, tc.method, tc.args...)

			// act
			sqlQuery, err := statements.ForResolution(resolution)

			// assert
			require.NoError(t, err)
			assert.Contains(t, sqlQuery, `UPDATE "accounts" SET`)
			assert.Contains(t, sqlQuery, "NOW()")
			assert.Contains(t, sqlQuery, `"entity_type" = '`+accountEntity+`'`)

			for _, fragment := range tc.expected {
				assert.Contains(t, sqlQuery, fragment)
			}
		})
	}
}

func Test_Statements_Update_FoldsAllMutations(t *testing.T) {
	// arrange
	update := querybuilder.BuildUpdate().
		Set("status", "locked").
		Unset("nickname").
		Inc("visits", 1).
		Finalize()

	// act
	sqlQuery, err := NewStatements("").Update(querybuilder.EntityTypeOf[account](), nil, update)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"document" || '{"status":"locked"}'::jsonb`)
	assert.Contains(t, sqlQuery, `- 'nickname'`)
	assert.Contains(t, sqlQuery, `'{visits}'::text[]`)
}

func Test_Statements_Update_ShouldFail_WithEmptyUpdate(t *testing.T) {
	// act
	_, err := NewStatements("").Update(querybuilder.EntityTypeOf[account](), nil, querybuilder.BuildUpdate().Finalize())

	// assert
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func Test_Statements_Select_WithDisjunction(t *testing.T) {
	// arrange
	filter := querybuilder.BuildFilter().
		Where(querybuilder.Eq("email", "a@b.com")).
		Or(querybuilder.Gt("visits", 10)).
		Finalize()

	// act
	sqlQuery, err := NewStatements("").Select(querybuilder.EntityTypeOf[account](), &filter)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"document" @> '{"email":"a@b.com"}'::jsonb OR "document" -> 'visits' > '10'::jsonb`)
}

func Test_Statements_Select_WithoutFilter_ScopesToEntityOnly(t *testing.T) {
	// act
	sqlQuery, err := NewStatements("").Select(querybuilder.EntityTypeOf[account](), nil)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"entity_type" = '`+accountEntity+`'`)
	assert.NotContains(t, sqlQuery, "@>")
}

func Test_Statements_Count_And_Delete(t *testing.T) {
	// arrange
	filter := querybuilder.BuildFilter().Where(querybuilder.Eq("status", "locked")).Finalize()
	entity := querybuilder.EntityTypeOf[account]()

	// act
	countQuery, countErr := NewStatements("").Count(entity, &filter)
	deleteQuery, deleteErr := NewStatements("").Delete(entity, &filter)

	// assert
	require.NoError(t, countErr)
	require.NoError(t, deleteErr)
	assert.Contains(t, countQuery, `SELECT COUNT(*) FROM "documents"`)
	assert.Contains(t, countQuery, `"document" @> '{"status":"locked"}'::jsonb`)
	assert.Contains(t, deleteQuery, `DELETE FROM "documents"`)
	assert.Contains(t, deleteQuery, `"document" @> '{"status":"locked"}'::jsonb`)
}

func Test_Statements_Insert(t *testing.T) {
	// arrange
	id := uuid.MustParse("0198d3a4-6b5e-7c3f-9a2b-123456789abc")

	// act
	sqlQuery, err := NewStatements("").Insert(querybuilder.EntityTypeOf[account](), id, []byte(`{"email":"o'neil@b.com"}`))

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "documents"`)
	assert.Contains(t, sqlQuery, `'`+id.String()+`'`)
	assert.Contains(t, sqlQuery, `'{"email":"o''neil@b.com"}'::jsonb`)
}
