package users

import (
	"context"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/postgresengine"
)

// Repository stores users in the document store and runs UserQueries resolutions against it.
type Repository struct {
	store postgresengine.DocumentStore
}

func NewRepository(store postgresengine.DocumentStore) Repository {
	return Repository{store: store}
}

func (r Repository) Add(ctx context.Context, user User) error {
	_, err := r.store.Insert(ctx, Declaration.Entity(), user)

	return err
}

// Find returns the users matching the filter of a query resolution.
func (r Repository) Find(ctx context.Context, resolution querybuilder.Resolution) ([]User, error) {
	result, err := r.store.Execute(ctx, resolution)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(result.Documents))
	for _, document := range result.Documents {
		var user User
		if err = document.Decode(&user); err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, nil
}

// Apply executes an update resolution and returns the number of updated users.
func (r Repository) Apply(ctx context.Context, resolution querybuilder.Resolution) (int64, error) {
	result, err := r.store.Execute(ctx, resolution)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected, nil
}
