package users

import (
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/conventions"
)

const ModuleName = "users"

// User is stored as a document; bson and json tags name the same document keys.
type User struct {
	Email    string `bson:"email" json:"email"`
	Name     string `bson:"name" json:"name"`
	Status   string `bson:"status" json:"status"`
	Logins   int    `bson:"logins" json:"logins"`
	Nickname string `bson:"nickname,omitempty" json:"nickname,omitempty"`
}

// UserQueries is implemented by Queries; no method has a hand-written body.
type UserQueries interface {
	FindByEmailEqualTo(email string) (querybuilder.Resolution, error)
	FindByStatusIn(statuses []string) (querybuilder.Resolution, error)
	FindByLoginsGreaterThan(logins int) (querybuilder.Resolution, error)
	FindByNicknameExists(exists bool) (querybuilder.Resolution, error)
	SetStatusTo(status string) (querybuilder.Resolution, error)
	SetStatusToWhereEmailEqualTo(status, email string) (querybuilder.Resolution, error)
	IncrementLoginsBy(n int) (querybuilder.Resolution, error)
	UnsetNickname() (querybuilder.Resolution, error)
}

var Declaration = querybuilder.DeclareBuilder[User, UserQueries]()

// Module declares UserQueries. Load it together with conventions.Module(), see Modules.
func Module() querybuilder.Module {
	return querybuilder.NewModule(ModuleName).WithBuilders(Declaration)
}

// Modules returns the standard conventions followed by the users module.
func Modules() []querybuilder.Module {
	return []querybuilder.Module{conventions.Module(), Module()}
}

// NewRegistry creates a registry with the users module and the standard conventions loaded.
func NewRegistry(options ...querybuilder.Option) (*querybuilder.Registry, error) {
	registry, err := querybuilder.NewRegistry(options...)
	if err != nil {
		return nil, err
	}

	if err = registry.Load(Modules()...); err != nil {
		return nil, err
	}

	return registry, nil
}
