package dialogue

import (
	"context"
	"sync"

	"github.com/tastegraph/tastegraph/plugin/nlp/criteria"
)

// MockSearcher is a Searcher test double recording what it was asked
// to search for.
type MockSearcher struct {
	mu sync.Mutex

	RecipeAnswer     string
	RestaurantAnswer string
	Err              error

	RecipeCalls     []RecipeCall
	RestaurantCalls []RestaurantCall
}

type RecipeCall struct {
	Query    string
	Criteria criteria.Recipe
}

type RestaurantCall struct {
	Query    string
	Criteria criteria.Restaurant
}

var _ Searcher = (*MockSearcher)(nil)

func (m *MockSearcher) SearchRecipes(_ context.Context, query string, rec criteria.Recipe) (string, error) {
	m.mu.Lock()
	m.RecipeCalls = append(m.RecipeCalls, RecipeCall{Query: query, Criteria: rec})
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.RecipeAnswer, nil
}

func (m *MockSearcher) SearchRestaurants(_ context.Context, query string, rest criteria.Restaurant) (string, error) {
	m.mu.Lock()
	m.RestaurantCalls = append(m.RestaurantCalls, RestaurantCall{Query: query, Criteria: rest})
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.RestaurantAnswer, nil
}
