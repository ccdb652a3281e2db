package store

import (
	"context"
	"database/sql"
)

// Driver is the database-specific half of the store. It contains every
// method a backing database must implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the vocabulary tables when they do not exist.
	Migrate(ctx context.Context) error

	// SeedVocabulary inserts terms, skipping ones already present.
	SeedVocabulary(ctx context.Context, vocab Vocabulary) error

	// Vocabulary listing, alphabetical.
	ListIngredients(ctx context.Context) ([]string, error)
	ListCuisines(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}
