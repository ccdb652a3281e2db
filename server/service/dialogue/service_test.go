package dialogue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastegraph/tastegraph/plugin/ai"
	"github.com/tastegraph/tastegraph/plugin/ai/intent"
	"github.com/tastegraph/tastegraph/plugin/ai/memory"
	"github.com/tastegraph/tastegraph/plugin/nlp/criteria"
	"github.com/tastegraph/tastegraph/plugin/nlp/lexicon"
	"github.com/tastegraph/tastegraph/plugin/nlp/ner"
)

type fixture struct {
	llm      *ai.MockCompleter
	memory   *memory.ShortTermMemory
	searcher *MockSearcher
	service  *Service
}

// newFixture builds a service over a small lexicon. The scripted LLM
// responses drive both classification and response generation, in call
// order.
func newFixture(t *testing.T, responses ...string) *fixture {
	t.Helper()

	patterns, err := lexicon.NewBuilder(&lexicon.MockSource{
		Ingredients: []string{"chicken", "broccoli", "peanut"},
		Cuisines:    []string{"greek", "italian"},
		Categories:  []string{"dessert", "smoothie"},
	}).Build(context.Background())
	require.NoError(t, err)

	llm := &ai.MockCompleter{Responses: responses}
	mem := memory.NewShortTermMemory(memory.Config{})
	t.Cleanup(mem.Close)
	searcher := &MockSearcher{RecipeAnswer: "recipe answer", RestaurantAnswer: "restaurant answer"}

	return &fixture{
		llm:      llm,
		memory:   mem,
		searcher: searcher,
		service: NewService(
			intent.NewParser(llm),
			intent.NewResponder(llm),
			ner.NewMatcher(patterns),
			criteria.NewExtractor(),
			mem,
			searcher,
			0,
		),
	}
}

func TestService_Handle_EmptyQuery(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Handle(context.Background(), "s1", Request{Query: "   "})
	require.ErrorIs(t, err, ErrEmptyQuery)

	// Nothing recorded for a rejected turn.
	messages, err := f.memory.LastK(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestService_Handle_RecipeSearch(t *testing.T) {
	f := newFixture(t, "Find a recipe")
	ctx := context.Background()

	reply, err := f.service.Handle(ctx, "s1", Request{
		Query:     "find a healthy Greek dish with chicken and broccoli",
		Allergies: []string{"peanut"},
	})
	require.NoError(t, err)
	assert.Equal(t, "recipe answer", reply)

	require.Len(t, f.searcher.RecipeCalls, 1)
	call := f.searcher.RecipeCalls[0]
	assert.Equal(t, "find a healthy Greek dish with chicken and broccoli", call.Query)
	assert.Equal(t, []string{"Greek"}, call.Criteria.Cuisine)
	assert.Equal(t, []string{"chicken", "chickens", "broccoli", "broccolis"}, call.Criteria.Ingredients)
	assert.Equal(t, "Healthy", call.Criteria.Diet)
	assert.Equal(t, []string{"peanut"}, call.Criteria.Allergies)

	// Both sides of the turn are remembered.
	messages, err := f.memory.LastK(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, memory.RoleUser, messages[0].Role)
	assert.Equal(t, memory.RoleAssistant, messages[1].Role)
	assert.Equal(t, "recipe answer", messages[1].Content)
}

func TestService_Handle_AllergicIngredientExcluded(t *testing.T) {
	f := newFixture(t, "Find a recipe")

	_, err := f.service.Handle(context.Background(), "s1", Request{
		Query:     "a smoothie with peanuts",
		Allergies: []string{"Peanuts"},
	})
	require.NoError(t, err)

	require.Len(t, f.searcher.RecipeCalls, 1)
	assert.Empty(t, f.searcher.RecipeCalls[0].Criteria.Ingredients)
	assert.Equal(t, []string{"smoothie", "smoothies"}, f.searcher.RecipeCalls[0].Criteria.Category)
}

func TestService_Handle_UnknownFallsBackToRecipes(t *testing.T) {
	// Two unparseable classifications degrade the intent to Unknown.
	f := newFixture(t, "no idea", "still no idea")

	reply, err := f.service.Handle(context.Background(), "s1", Request{Query: "mumble mumble chicken"})
	require.NoError(t, err)
	assert.Equal(t, "recipe answer", reply)
	assert.Len(t, f.searcher.RecipeCalls, 1)
	assert.Empty(t, f.searcher.RestaurantCalls)
}

func TestService_Handle_RestaurantSearch(t *testing.T) {
	f := newFixture(t, "Find a restaurant")

	reply, err := f.service.Handle(context.Background(), "s1", Request{
		Query: "an Italian restaurant with 4 stars",
		City:  "Boston",
	})
	require.NoError(t, err)
	assert.Equal(t, "restaurant answer", reply)

	require.Len(t, f.searcher.RestaurantCalls, 1)
	call := f.searcher.RestaurantCalls[0]
	assert.Equal(t, "Italian", call.Criteria.Cuisine)
	assert.Equal(t, "Boston", call.Criteria.City)
	require.NotNil(t, call.Criteria.MinRating)
	assert.Equal(t, 4, *call.Criteria.MinRating)
}

func TestService_Handle_CannedIntents(t *testing.T) {
	tests := []struct {
		name  string
		label string
		query string
	}{
		{"greeting", "Greetings", "hello there"},
		{"quit", "Quit Chat", "bye now"},
		{"gratitude", "Express Gratitude", "thanks so much"},
		{"other", "Other", "tell me about the stock market"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.label, "canned reply")

			reply, err := f.service.Handle(context.Background(), "s1", Request{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, "canned reply", reply)
			assert.Empty(t, f.searcher.RecipeCalls)
			assert.Empty(t, f.searcher.RestaurantCalls)
		})
	}
}

func TestService_Handle_GreetingUsesName(t *testing.T) {
	f := newFixture(t, "Greetings", "hi Sam")

	_, err := f.service.Handle(context.Background(), "s1", Request{Query: "hello", Name: "Sam"})
	require.NoError(t, err)

	require.Len(t, f.llm.Calls, 2)
	assert.Contains(t, f.llm.Calls[1].Input, "The user's name is Sam.")
}

func TestService_Handle_FoodQuestionUsesHistory(t *testing.T) {
	ctx := context.Background()

	// Turn 1: a recipe search seeds the history.
	f := newFixture(t,
		"Find a recipe", // turn 1 classification
		"Ask a Question",        // turn 2 classification
		"Food Related Question", // turn 2 sub-classification
		"user asked about chicken dishes", // relevant-info extraction
		"About 30 minutes in the oven.",   // final answer
	)

	_, err := f.service.Handle(ctx, "s1", Request{Query: "find me a chicken recipe"})
	require.NoError(t, err)

	reply, err := f.service.Handle(ctx, "s1", Request{Query: "how long does it take to cook?"})
	require.NoError(t, err)
	assert.Equal(t, "About 30 minutes in the oven.", reply)

	// The relevant-info call sees the prior turn but not the current
	// question inside the history block.
	require.Len(t, f.llm.Calls, 5)
	extraction := f.llm.Calls[3].Input
	assert.Contains(t, extraction, "user: find me a chicken recipe")
	assert.Contains(t, extraction, "assistant: recipe answer")
	assert.Contains(t, extraction, "current question: how long does it take to cook?")

	answer := f.llm.Calls[4].Input
	assert.Contains(t, answer, "context: user asked about chicken dishes")
}

func TestService_Handle_NonFoodQuestionRefused(t *testing.T) {
	f := newFixture(t, "Ask a Question", "Non Food Related Question", "sorry, food only")

	reply, err := f.service.Handle(context.Background(), "s1", Request{Query: "who won the election?"})
	require.NoError(t, err)
	assert.Equal(t, "sorry, food only", reply)
}

func TestService_Handle_SearchFailureNotRecorded(t *testing.T) {
	f := newFixture(t, "Find a recipe")
	f.searcher.Err = errors.New("graph down")
	ctx := context.Background()

	_, err := f.service.Handle(ctx, "s1", Request{Query: "chicken dinner"})
	require.Error(t, err)

	// The user message is kept, the failed reply is not.
	messages, err := f.memory.LastK(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, memory.RoleUser, messages[0].Role)
}

func TestService_ResetMemory(t *testing.T) {
	f := newFixture(t, "Find a recipe")
	ctx := context.Background()

	_, err := f.service.Handle(ctx, "s1", Request{Query: "chicken dinner"})
	require.NoError(t, err)

	require.NoError(t, f.service.ResetMemory(ctx, "s1"))

	messages, err := f.memory.LastK(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestService_Handle_ConcurrentSessions(t *testing.T) {
	f := newFixture(t)
	f.llm.CompleteFunc = func(_ context.Context, _, _ string, _ float32) (string, error) {
		return "Find a recipe", nil
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("session-%d", i)
			for j := 0; j < 5; j++ {
				_, err := f.service.Handle(ctx, sessionID, Request{Query: "chicken dinner"})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		messages, err := f.memory.LastK(ctx, fmt.Sprintf("session-%d", i), 0)
		require.NoError(t, err)
		assert.Len(t, messages, 10)
	}
}
