package postgresengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/conventions"
)

const accountEntity = "postgresengine_test.account"

type account struct {
	Email    string `json:"email"`
	Status   string `json:"status"`
	Visits   int    `json:"visits"`
	Nickname string `json:"nickname,omitempty"`
}

type accountQueries interface {
	FindByEmailEqualTo(email string) error
	FindByEmailNotEqualTo(email string) error
	FindByVisitsGreaterThan(visits int) error
	FindByVisitsLessThanOrEqualTo(visits int) error
	FindByStatusIn(statuses []string) error
	FindByNicknameExists(exists bool) error
	SetStatusTo(status string) error
	SetStatusToWhereEmailEqualTo(status, email string) error
	IncrementVisitsBy(delta int) error
	UnsetNickname() error
}

var accountBuilder = querybuilder.DeclareBuilder[account, accountQueries]()

func givenAccountRegistry(t testing.TB) *querybuilder.Registry {
	registry, err := querybuilder.NewRegistry()
	require.NoError(t, err, "error in arranging test data")

	err = registry.Load(conventions.Module(), querybuilder.NewModule("accounts").WithBuilders(accountBuilder))
	require.NoError(t, err, "error in arranging test data")

	return registry
}

func givenResolution(t testing.TB, registry *querybuilder.Registry, method string, args ...any) querybuilder.Resolution {
	invocation, err := querybuilder.NewInvocationFor(accountBuilder, method, args...)
	require.NoError(t, err, "error in arranging test data")

	resolution, err := registry.Resolve(context.Background(), invocation)
	require.NoError(t, err, "error in arranging test data")

	return resolution
}
