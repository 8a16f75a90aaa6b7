package querybuilder_test

import (
	"strings"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

type customer struct {
	Email  string `bson:"email"`
	Status string `bson:"status"`
	Visits int    `bson:"visits"`
}

type customerQueries interface {
	FindByEmailEqualTo(email string) querybuilder.Resolution
	SetStatusTo(status string) querybuilder.Resolution
}

type order struct {
	Number string
}

type orderQueries interface {
	FindByNumberEqualTo(number string) querybuilder.Resolution
	Archive() querybuilder.Resolution
}

var customerBuilder = querybuilder.DeclareBuilder[customer, customerQueries]()
var orderBuilder = querybuilder.DeclareBuilder[order, orderQueries]()

// stubConvention is a configurable Convention for tests.
type stubConvention struct {
	name    string
	matches func(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool
	filter  func(invocation querybuilder.Invocation) (*querybuilder.Filter, error)
	update  func(invocation querybuilder.Invocation) (*querybuilder.Update, error)
}

func (c stubConvention) Name() string {
	return c.name
}

func (c stubConvention) Matches(entity querybuilder.EntityType, method querybuilder.MethodSignature) bool {
	if c.matches == nil {
		return false
	}

	return c.matches(entity, method)
}

func (c stubConvention) GenerateFilter(invocation querybuilder.Invocation) (*querybuilder.Filter, error) {
	if c.filter == nil {
		return nil, nil
	}

	return c.filter(invocation)
}

func (c stubConvention) GenerateUpdate(invocation querybuilder.Invocation) (*querybuilder.Update, error) {
	if c.update == nil {
		return nil, nil
	}

	return c.update(invocation)
}

func matchAll(querybuilder.EntityType, querybuilder.MethodSignature) bool {
	return true
}

func matchPrefix(prefix string) func(querybuilder.EntityType, querybuilder.MethodSignature) bool {
	return func(_ querybuilder.EntityType, method querybuilder.MethodSignature) bool {
		return strings.HasPrefix(method.Name(), prefix)
	}
}

// fieldName extracts <F> from "<prefix><F><suffix>" with a lower-case first letter.
func fieldName(method querybuilder.MethodSignature, prefix, suffix string) string {
	field := strings.TrimSuffix(strings.TrimPrefix(method.Name(), prefix), suffix)
	if field == "" {
		return field
	}

	return strings.ToLower(field[:1]) + field[1:]
}

// equalityByFieldConvention generates "equality on field F from argument 0" for FindBy<F>EqualTo.
func equalityByFieldConvention() stubConvention {
	return stubConvention{
		name: "FindByEqualTo",
		matches: func(_ querybuilder.EntityType, method querybuilder.MethodSignature) bool {
			return strings.HasPrefix(method.Name(), "FindBy") &&
				strings.HasSuffix(method.Name(), "EqualTo") &&
				method.NumParams() == 1
		},
		filter: func(invocation querybuilder.Invocation) (*querybuilder.Filter, error) {
			value, _ := invocation.Arg(0)
			field := fieldName(invocation.Method(), "FindBy", "EqualTo")
			filter := querybuilder.BuildFilter().Where(querybuilder.Eq(field, value)).Finalize()

			return &filter, nil
		},
	}
}

// setFieldConvention generates "set field F to argument 0" for Set<F>To.
func setFieldConvention() stubConvention {
	return stubConvention{
		name: "SetTo",
		matches: func(_ querybuilder.EntityType, method querybuilder.MethodSignature) bool {
			return strings.HasPrefix(method.Name(), "Set") &&
				strings.HasSuffix(method.Name(), "To") &&
				method.NumParams() == 1
		},
		update: func(invocation querybuilder.Invocation) (*querybuilder.Update, error) {
			value, _ := invocation.Arg(0)
			field := fieldName(invocation.Method(), "Set", "To")
			update := querybuilder.BuildUpdate().Set(field, value).Finalize()

			return &update, nil
		},
	}
}

func customerModule() querybuilder.Module {
	return querybuilder.NewModule("customers").
		WithBuilders(customerBuilder).
		WithConventions(equalityByFieldConvention(), setFieldConvention())
}
