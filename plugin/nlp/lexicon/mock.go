package lexicon

import "context"

// MockSource is an in-memory Source for testing.
type MockSource struct {
	Ingredients []string
	Cuisines    []string
	Categories  []string

	// Err, when set, is returned by every list call.
	Err error
}

func (m *MockSource) ListIngredients(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Ingredients, nil
}

func (m *MockSource) ListCuisines(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cuisines, nil
}

func (m *MockSource) ListCategories(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

// Ensure MockSource implements Source
var _ Source = (*MockSource)(nil)
