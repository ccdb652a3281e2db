// Package lexicon builds the entity pattern table from the domain
// vocabulary kept in the knowledge store. The build runs once at startup;
// refreshing the lexicon requires a restart.
package lexicon

import "context"

// Source is the read-only handle to the domain vocabulary collections.
// Implementations live outside this package (see the store package).
type Source interface {
	ListIngredients(ctx context.Context) ([]string, error)
	ListCuisines(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}
