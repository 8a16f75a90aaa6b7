package cli

import (
	"bytes"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/convention-query-builder-go/example/users"
)

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, cmd := range root.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

func Test_RootCommand_HasSubcommandsAndFlags(t *testing.T) {
	// arrange
	cmd := NewRootCommand()

	// assert
	assert.Equal(t, "querybuilder", cmd.Use)
	assert.NotNil(t, findCommand(cmd, "bindings"))
	assert.NotNil(t, findCommand(cmd, "resolve"))

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, formatText, format.DefValue)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func Test_RootCommand_RejectsInvalidFormat(t *testing.T) {
	// act
	_, _, err := runCommand(t, "bindings", "--format", "xml")

	// assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func Test_ResolveCommand_HasFlags(t *testing.T) {
	// arrange
	cmd := findCommand(NewRootCommand(), "resolve")
	require.NotNil(t, cmd)

	// assert
	for _, name := range []string{"sql", "execute", "all", "table", "env-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "documents", cmd.Flags().Lookup("table").DefValue)
}

/***** bindings *****/

func Test_BindingsCommand_PrintsEveryMethodAsJSON(t *testing.T) {
	// act
	stdout, _, err := runCommand(t, "bindings", "--format", "json")
	require.NoError(t, err)

	// assert
	var view bindingsView
	require.NoError(t, jsoniter.Unmarshal([]byte(stdout), &view))

	assert.Equal(t, "first-match-wins", view.Policy)
	assert.Len(t, view.Bindings, users.Declaration.Interface().NumMethod())

	conventionsByMethod := map[string]string{}
	for _, binding := range view.Bindings {
		assert.Equal(t, "users.User", binding.Entity)
		conventionsByMethod[binding.Method] = binding.Convention
	}

	assert.Equal(t, "FindByFieldComparison", conventionsByMethod["users.UserQueries.FindByEmailEqualTo"])
	assert.Equal(t, "IncrementFieldBy", conventionsByMethod["users.UserQueries.IncrementLoginsBy"])
	assert.Equal(t, "UnsetField", conventionsByMethod["users.UserQueries.UnsetNickname"])
}

func Test_BindingsCommand_PrintsYAML(t *testing.T) {
	// act
	stdout, _, err := runCommand(t, "bindings", "--format", "yaml")
	require.NoError(t, err)

	// assert
	var view bindingsView
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &view))
	assert.Len(t, view.Bindings, users.Declaration.Interface().NumMethod())
}

func Test_BindingsCommand_PrintsText(t *testing.T) {
	// act
	stdout, _, err := runCommand(t, "bindings")
	require.NoError(t, err)

	// assert
	assert.True(t, strings.HasPrefix(stdout, "policy: first-match-wins\n"))
	assert.Contains(t, stdout, "users.UserQueries.SetStatusToWhereEmailEqualTo")
	assert.Contains(t, stdout, "-> SetFieldToWhereFieldEqualTo")
}

func Test_BindingsCommand_LogsWhenVerbose(t *testing.T) {
	// act
	_, stderr, err := runCommand(t, "bindings", "--verbose")
	require.NoError(t, err)

	// assert
	assert.NotEmpty(t, stderr)
}

/***** resolve *****/

func Test_ResolveCommand_PrintsDocuments(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		convention string
		filter     string
		update     string
	}{
		{
			name:       "comparison",
			args:       []string{"FindByEmailEqualTo", "jane@example.com"},
			convention: "FindByFieldComparison",
			filter:     `{"email":"jane@example.com"}`,
		},
		{
			name:       "slice argument",
			args:       []string{"FindByStatusIn", "active, locked"},
			convention: "FindByFieldComparison",
			filter:     `{"status":{"$in":["active","locked"]}}`,
		},
		{
			name:       "int argument",
			args:       []string{"FindByLoginsGreaterThan", "10"},
			convention: "FindByFieldComparison",
			filter:     `{"logins":{"$gt":10}}`,
		},
		{
			name:       "bool argument",
			args:       []string{"FindByNicknameExists", "true"},
			convention: "FindByFieldExists",
			filter:     `{"nickname":{"$exists":true}}`,
		},
		{
			name:       "update with filter",
			args:       []string{"SetStatusToWhereEmailEqualTo", "locked", "jane@example.com"},
			convention: "SetFieldToWhereFieldEqualTo",
			filter:     `{"email":"jane@example.com"}`,
			update:     `{"$set":{"status":"locked"}}`,
		},
		{
			name:       "increment",
			args:       []string{"IncrementLoginsBy", "2"},
			convention: "IncrementFieldBy",
			update:     `{"$inc":{"logins":2}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			stdout, _, err := runCommand(t, append([]string{"resolve", "--format", "json"}, tc.args...)...)
			require.NoError(t, err)

			// assert
			var view resolutionView
			require.NoError(t, jsoniter.Unmarshal([]byte(stdout), &view))

			assert.Equal(t, "users.UserQueries."+tc.args[0], view.Method)
			assert.Equal(t, tc.convention, view.Convention)

			if tc.filter == "" {
				assert.Nil(t, view.Filter)
			} else {
				assert.JSONEq(t, tc.filter, compactJSON(view.Filter))
			}

			if tc.update == "" {
				assert.Nil(t, view.Update)
			} else {
				assert.JSONEq(t, tc.update, compactJSON(view.Update))
			}

			assert.Empty(t, view.SQL)
		})
	}
}

func Test_ResolveCommand_PrintsText(t *testing.T) {
	// act
	stdout, _, err := runCommand(t, "resolve", "UnsetNickname")
	require.NoError(t, err)

	// assert
	assert.Contains(t, stdout, "method:     users.UserQueries.UnsetNickname\n")
	assert.Contains(t, stdout, "convention: UnsetField\n")
	assert.Contains(t, stdout, `update:     {"$unset":{"nickname":""}}`)
	assert.NotContains(t, stdout, "filter:")
}

func Test_ResolveCommand_RendersSQL(t *testing.T) {
	// act
	stdout, _, err := runCommand(t, "resolve", "FindByEmailEqualTo", "jane@example.com", "--sql", "--table", "people")
	require.NoError(t, err)

	// assert
	assert.Contains(t, stdout, "sql:        SELECT")
	assert.Contains(t, stdout, `"people"`)
	assert.Contains(t, stdout, "@>")
}

func Test_ResolveCommand_Fails(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		error error
	}{
		{
			name:  "too few arguments",
			args:  []string{"resolve", "FindByEmailEqualTo"},
			error: ErrArgumentCountMismatch,
		},
		{
			name:  "too many arguments",
			args:  []string{"resolve", "UnsetNickname", "x"},
			error: ErrArgumentCountMismatch,
		},
		{
			name:  "non numeric int",
			args:  []string{"resolve", "IncrementLoginsBy", "many"},
			error: ErrArgumentConversionFail,
		},
		{
			name:  "non bool",
			args:  []string{"resolve", "FindByNicknameExists", "perhaps"},
			error: ErrArgumentConversionFail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			stdout, _, err := runCommand(t, tc.args...)

			// assert
			require.ErrorIs(t, err, tc.error)
			assert.Empty(t, stdout)
		})
	}
}

func Test_ResolveCommand_FailsForUnknownMethod(t *testing.T) {
	// act
	_, _, err := runCommand(t, "resolve", "FindByShoeSize", "42")

	// assert
	require.Error(t, err)
}

func Test_ResolveCommand_ExecuteRequiresDSN(t *testing.T) {
	// arrange
	t.Setenv(PostgresDSNEnv, "")

	// act
	_, _, err := runCommand(t,
		"resolve", "FindByEmailEqualTo", "jane@example.com",
		"--execute", "--env-file", t.TempDir()+"/missing.env",
	)

	// assert
	require.ErrorIs(t, err, ErrMissingPostgresDSN)
}

func Test_ResolveCommand_ExecuteOfUnfilteredUpdateRequiresAll(t *testing.T) {
	// arrange
	t.Setenv(PostgresDSNEnv, "")
	envFile := t.TempDir() + "/missing.env"

	// act
	stdout, _, err := runCommand(t, "resolve", "SetStatusTo", "archived", "--execute", "--env-file", envFile)
	_, _, allErr := runCommand(t, "resolve", "SetStatusTo", "archived", "--execute", "--all", "--env-file", envFile)

	// assert
	require.ErrorIs(t, err, ErrUnfilteredUpdate)
	assert.Empty(t, stdout)
	require.ErrorIs(t, allErr, ErrMissingPostgresDSN)
}
