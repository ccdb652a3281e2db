// Package store persists the food vocabulary the NLP layer is built
// from.
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/internal/profile"
	"github.com/tastegraph/tastegraph/plugin/nlp/lexicon"
)

// Store is the database-backed vocabulary source.
type Store struct {
	driver  Driver
	profile *profile.Profile
}

var _ lexicon.Source = (*Store)(nil)

// New creates a store over the given driver.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

// Migrate creates the schema and, in demo mode, seeds the vocabulary so
// a fresh instance recognizes entities immediately.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.driver.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate")
	}
	if s.profile.Mode == "demo" {
		if err := s.driver.SeedVocabulary(ctx, DemoVocabulary()); err != nil {
			return errors.Wrap(err, "failed to seed vocabulary")
		}
	}
	return nil
}

func (s *Store) ListIngredients(ctx context.Context) ([]string, error) {
	return s.driver.ListIngredients(ctx)
}

func (s *Store) ListCuisines(ctx context.Context) ([]string, error) {
	return s.driver.ListCuisines(ctx)
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	return s.driver.ListCategories(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.driver.Close()
}
