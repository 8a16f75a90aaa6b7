package querybuilder_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

func givenCustomerDispatcher(t *testing.T) querybuilder.Dispatcher {
	t.Helper()

	table, err := querybuilder.BuildBindingTable(
		customerBuilder.Descriptors(),
		[]querybuilder.Convention{equalityByFieldConvention(), setFieldConvention()},
	)
	require.NoError(t, err, "error in arranging test data")

	return querybuilder.NewDispatcher(table)
}

func givenInvocation(t *testing.T, declaration querybuilder.BuilderDeclaration, method string, args ...any) querybuilder.Invocation {
	t.Helper()

	invocation, err := querybuilder.NewInvocationFor(declaration, method, args...)
	require.NoError(t, err, "error in arranging test data")

	return invocation
}

func Test_Dispatcher_GeneratesFilter(t *testing.T) {
	// arrange
	dispatcher := givenCustomerDispatcher(t)
	invocation := givenInvocation(t, customerBuilder, "FindByEmailEqualTo", "a@b.com")

	// act
	resolution, err := dispatcher.Resolve(invocation)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "FindByEqualTo", resolution.Convention())
	assert.Equal(t, querybuilder.EntityTypeOf[customer](), resolution.Entity())
	assert.Equal(t, invocation.Method(), resolution.Method())
	assert.True(t, resolution.HasFilter())
	assert.Equal(t, map[string]any{"email": "a@b.com"}, resolution.Filter().Document())
	assert.False(t, resolution.HasUpdate())
	assert.Nil(t, resolution.Update())
}

func Test_Dispatcher_GeneratesUpdate(t *testing.T) {
	// arrange
	dispatcher := givenCustomerDispatcher(t)
	invocation := givenInvocation(t, customerBuilder, "SetStatusTo", "archived")

	// act
	resolution, err := dispatcher.Resolve(invocation)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "SetTo", resolution.Convention())
	assert.Nil(t, resolution.Filter())
	require.True(t, resolution.HasUpdate())
	assert.Equal(t, map[string]any{"$set": map[string]any{"status": "archived"}}, resolution.Update().Document())
}

func Test_Dispatcher_RejectsUnboundMethods(t *testing.T) {
	tests := []struct {
		name       string
		invocation func(t *testing.T) querybuilder.Invocation
	}{
		{
			name: "method_not_in_catalog",
			invocation: func(t *testing.T) querybuilder.Invocation {
				return givenInvocation(t, orderBuilder, "FindByNumberEqualTo", "42")
			},
		},
		{
			name: "method_invoked_for_another_entity",
			invocation: func(t *testing.T) querybuilder.Invocation {
				return givenInvocation(t, querybuilder.DeclareBuilder[order, customerQueries](), "FindByEmailEqualTo", "a@b.com")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := givenCustomerDispatcher(t).Resolve(tc.invocation(t))

			// assert
			require.ErrorIs(t, err, querybuilder.ErrUnboundMethod)

			var unbound *querybuilder.UnboundMethodError
			assert.True(t, errors.As(err, &unbound))
		})
	}
}

func Test_Dispatcher_WithoutBindingTable(t *testing.T) {
	// act
	_, err := querybuilder.NewDispatcher(nil).Resolve(givenInvocation(t, customerBuilder, "SetStatusTo", "x"))

	// assert
	assert.ErrorIs(t, err, querybuilder.ErrBindingsNotBuilt)
}

func Test_Dispatcher_RejectsEmptyGeneration(t *testing.T) {
	// arrange
	table, err := querybuilder.BuildBindingTable(customerBuilder.Descriptors(), []querybuilder.Convention{
		stubConvention{name: "Nothing", matches: matchAll},
	})
	require.NoError(t, err)

	// act
	_, err = querybuilder.NewDispatcher(table).Resolve(givenInvocation(t, customerBuilder, "SetStatusTo", "x"))

	// assert
	require.ErrorIs(t, err, querybuilder.ErrEmptyGeneration)

	var empty *querybuilder.EmptyGenerationError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "Nothing", empty.Convention)
}

func Test_Dispatcher_PropagatesGenerationErrors(t *testing.T) {
	// arrange
	generatorErr := errors.New("boom")
	table, err := querybuilder.BuildBindingTable(customerBuilder.Descriptors(), []querybuilder.Convention{
		stubConvention{
			name:    "Failing",
			matches: matchAll,
			update: func(querybuilder.Invocation) (*querybuilder.Update, error) {
				return nil, generatorErr
			},
		},
	})
	require.NoError(t, err)

	// act
	resolution, err := querybuilder.NewDispatcher(table).Resolve(givenInvocation(t, customerBuilder, "SetStatusTo", "x"))

	// assert
	assert.ErrorIs(t, err, querybuilder.ErrGenerationFailed)
	assert.ErrorIs(t, err, generatorErr)
	assert.Equal(t, querybuilder.Resolution{}, resolution)
}

func Test_Dispatcher_ConcurrentResolvesAreIndependent(t *testing.T) {
	// arrange
	dispatcher := givenCustomerDispatcher(t)

	const workers = 32
	const perWorker = 50

	var wg sync.WaitGroup
	failures := make(chan string, workers*perWorker)

	// act
	for w := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range perWorker {
				email := fmt.Sprintf("user-%d-%d@example.com", w, i)

				invocation, err := querybuilder.NewInvocationFor(customerBuilder, "FindByEmailEqualTo", email)
				if err != nil {
					failures <- err.Error()
					continue
				}

				resolution, err := dispatcher.Resolve(invocation)
				if err != nil {
					failures <- err.Error()
					continue
				}

				if got := resolution.Filter().Document()["email"]; got != email {
					failures <- fmt.Sprintf("expected %s, got %v", email, got)
				}
			}
		}()
	}

	wg.Wait()
	close(failures)

	// assert
	collected := make([]string, 0)
	for failure := range failures {
		collected = append(collected, failure)
	}

	assert.Empty(t, collected)
}

func Test_Invocation_CopiesArguments(t *testing.T) {
	// arrange
	args := []any{"a@b.com"}
	invocation := givenInvocation(t, customerBuilder, "FindByEmailEqualTo", args...)

	// act
	args[0] = "changed"
	returned := invocation.Args()
	returned[0] = "changed too"

	// assert
	arg, ok := invocation.Arg(0)
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", arg)
	assert.Equal(t, 1, invocation.NumArgs())

	_, ok = invocation.Arg(1)
	assert.False(t, ok)
	assert.Equal(t, querybuilder.NewMethodDescriptor(invocation.Entity(), invocation.Method()), invocation.Descriptor())
}

func Test_NewInvocationFor_UnknownMethod(t *testing.T) {
	// act
	_, err := querybuilder.NewInvocationFor(customerBuilder, "DeleteEverything")

	// assert
	assert.ErrorIs(t, err, querybuilder.ErrMethodNotDeclared)
}
