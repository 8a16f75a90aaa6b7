package conventions

import (
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

// ModuleName is the name of the Module returned by Module.
const ModuleName = "conventions.standard"

// Standard returns the standard conventions in registration order.
// The two-field SetFieldToWhereFieldEqualTo comes before SetFieldTo, so it binds first.
func Standard() []querybuilder.Convention {
	return []querybuilder.Convention{
		SetFieldToWhereFieldEqualTo{},
		FindByFieldComparison{},
		FindByFieldExists{},
		SetFieldTo{},
		IncrementFieldBy{},
		UnsetField{},
	}
}

// Module contributes the Standard conventions to a Registry.
func Module() querybuilder.Module {
	return querybuilder.NewModule(ModuleName).WithConventions(Standard()...)
}
