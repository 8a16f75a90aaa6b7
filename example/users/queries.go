package users

import (
	"context"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

// Queries implements UserQueries by resolving every call through the registry.
type Queries struct {
	ctx      context.Context
	registry *querybuilder.Registry
}

func NewQueries(registry *querybuilder.Registry) Queries {
	return Queries{ctx: context.Background(), registry: registry}
}

// WithContext returns a copy of the Queries that resolves with ctx, e.g. for trace correlation.
func (q Queries) WithContext(ctx context.Context) Queries {
	q.ctx = ctx
	return q
}

func (q Queries) FindByEmailEqualTo(email string) (querybuilder.Resolution, error) {
	return q.resolve("FindByEmailEqualTo", email)
}

func (q Queries) FindByStatusIn(statuses []string) (querybuilder.Resolution, error) {
	return q.resolve("FindByStatusIn", statuses)
}

func (q Queries) FindByLoginsGreaterThan(logins int) (querybuilder.Resolution, error) {
	return q.resolve("FindByLoginsGreaterThan", logins)
}

func (q Queries) FindByNicknameExists(exists bool) (querybuilder.Resolution, error) {
	return q.resolve("FindByNicknameExists", exists)
}

func (q Queries) SetStatusTo(status string) (querybuilder.Resolution, error) {
	return q.resolve("SetStatusTo", status)
}

func (q Queries) SetStatusToWhereEmailEqualTo(status, email string) (querybuilder.Resolution, error) {
	return q.resolve("SetStatusToWhereEmailEqualTo", status, email)
}

func (q Queries) IncrementLoginsBy(n int) (querybuilder.Resolution, error) {
	return q.resolve("IncrementLoginsBy", n)
}

func (q Queries) UnsetNickname() (querybuilder.Resolution, error) {
	return q.resolve("UnsetNickname")
}

func (q Queries) resolve(method string, args ...any) (querybuilder.Resolution, error) {
	invocation, err := querybuilder.NewInvocationFor(Declaration, method, args...)
	if err != nil {
		return querybuilder.Resolution{}, err
	}

	return q.registry.Resolve(q.ctx, invocation)
}

var _ UserQueries = Queries{}
