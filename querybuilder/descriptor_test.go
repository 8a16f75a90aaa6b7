package querybuilder_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

func Test_EntityTypeOf_DereferencesPointers(t *testing.T) {
	// act
	fromValue := querybuilder.EntityTypeOf[customer]()
	fromPointer := querybuilder.EntityTypeOf[*customer]()

	// assert
	assert.Equal(t, fromValue, fromPointer)
	assert.Equal(t, "customer", fromValue.Name())
	assert.Equal(t, "querybuilder_test.customer", fromValue.String())
	assert.False(t, fromValue.IsZero())
}

func Test_NewEntityType_RejectsNonStructs(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{name: "nil", typ: nil},
		{name: "string", typ: reflect.TypeFor[string]()},
		{name: "pointer_to_int", typ: reflect.TypeFor[*int]()},
		{name: "interface", typ: reflect.TypeFor[customerQueries]()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := querybuilder.NewEntityType(tc.typ)

			// assert
			assert.ErrorIs(t, err, querybuilder.ErrInvalidBuilderDeclaration)
		})
	}
}

func Test_NewBuilderDeclaration_RejectsNonInterfaces(t *testing.T) {
	// act
	_, err := querybuilder.NewBuilderDeclaration(reflect.TypeFor[customer](), reflect.TypeFor[customer]())

	// assert
	assert.ErrorIs(t, err, querybuilder.ErrInvalidBuilderDeclaration)
	assert.Panics(t, func() {
		querybuilder.DeclareBuilder[customer, order]()
	})
}

func Test_BuilderDeclaration_DescribesEveryMethod(t *testing.T) {
	// act
	descriptors := customerBuilder.Descriptors()

	// assert
	require.Len(t, descriptors, 2)

	names := []string{descriptors[0].Method().Name(), descriptors[1].Method().Name()}
	assert.ElementsMatch(t, []string{"FindByEmailEqualTo", "SetStatusTo"}, names)

	for _, descriptor := range descriptors {
		assert.Equal(t, querybuilder.EntityTypeOf[customer](), descriptor.Entity())
	}
}

func Test_MethodSignature_DescribesTheMethod(t *testing.T) {
	// act
	signature, err := customerBuilder.Method("FindByEmailEqualTo")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "FindByEmailEqualTo", signature.Name())
	assert.Equal(t, "querybuilder_test.customerQueries", signature.Interface())
	assert.Equal(t, "querybuilder_test.customerQueries.FindByEmailEqualTo", signature.QualifiedName())
	assert.Equal(t, 1, signature.NumParams())
	assert.Equal(t, reflect.TypeFor[string](), signature.Param(0))
	assert.Equal(t, []reflect.Type{reflect.TypeFor[querybuilder.Resolution]()}, signature.Results())
	assert.False(t, signature.IsVariadic())
	assert.Equal(
		t,
		"querybuilder_test.customerQueries.FindByEmailEqualTo(string) querybuilder.Resolution",
		signature.String(),
	)
}

func Test_MethodSignature_IsComparable(t *testing.T) {
	// arrange
	first, err := customerBuilder.Method("SetStatusTo")
	require.NoError(t, err)

	second, err := querybuilder.NewMethodSignature(reflect.TypeFor[customerQueries](), "SetStatusTo")
	require.NoError(t, err)

	other, err := customerBuilder.Method("FindByEmailEqualTo")
	require.NoError(t, err)

	// assert
	assert.True(t, first == second)
	assert.False(t, first == other)
}

func Test_MethodSignature_UnknownMethod(t *testing.T) {
	// act
	_, err := customerBuilder.Method("DeleteEverything")

	// assert
	assert.ErrorIs(t, err, querybuilder.ErrMethodNotDeclared)
}
