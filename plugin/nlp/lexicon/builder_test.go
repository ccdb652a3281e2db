package lexicon

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastegraph/tastegraph/plugin/nlp/ner"
)

func patternsFor(patterns []ner.Pattern, label ner.Label) []ner.Pattern {
	var out []ner.Pattern
	for _, p := range patterns {
		if p.Label == label {
			out = append(out, p)
		}
	}
	return out
}

func TestBuilder_SingularPluralPairs(t *testing.T) {
	source := &MockSource{
		Ingredients: []string{"chicken", "strawberries"},
		Cuisines:    []string{"Greek"},
		Categories:  []string{"dessert"},
	}
	builder := NewBuilder(source)

	patterns, err := builder.Build(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name  string
		label ner.Label
		terms map[string]string // pattern token -> expected lemma
	}{
		{
			name:  "singular ingredient gets plural sibling",
			label: ner.LabelIngredient,
			terms: map[string]string{
				"chicken":      "chicken",
				"chickens":     "chicken",
				"strawberry":   "strawberry",
				"strawberries": "strawberry",
			},
		},
		{
			name:  "category expanded the same way",
			label: ner.LabelCategory,
			terms: map[string]string{
				"dessert":  "dessert",
				"desserts": "dessert",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]string{}
			for _, p := range patternsFor(patterns, tt.label) {
				require.Len(t, p.Tokens, 1)
				got[p.Tokens[0].Text] = p.Lemma
			}
			assert.Equal(t, tt.terms, got)
		})
	}
}

func TestBuilder_CuisineVerbatim(t *testing.T) {
	source := &MockSource{Cuisines: []string{"Greek", "italian"}}
	builder := NewBuilder(source)

	patterns, err := builder.Build(context.Background())
	require.NoError(t, err)

	cuisines := patternsFor(patterns, ner.LabelCuisine)
	require.Len(t, cuisines, 2)
	assert.Equal(t, "greek", cuisines[0].Tokens[0].Text)
	assert.Equal(t, "italian", cuisines[1].Tokens[0].Text)
}

func TestBuilder_IncludesFixedPatterns(t *testing.T) {
	builder := NewBuilder(&MockSource{})

	patterns, err := builder.Build(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, patternsFor(patterns, ner.LabelRatingValue))
	assert.NotEmpty(t, patternsFor(patterns, ner.LabelDietLabel))
	assert.NotEmpty(t, patternsFor(patterns, ner.LabelTime))
}

func TestBuilder_SourceFailureIsFatal(t *testing.T) {
	source := &MockSource{Err: errors.New("store unreachable")}
	builder := NewBuilder(source)

	patterns, err := builder.Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, patterns)
	assert.Contains(t, err.Error(), "failed to build lexicon")
}

// Matching either normalized form in text must yield a span with the same
// base lemma.
func TestBuilder_FormsNormalizeToSameLemma(t *testing.T) {
	source := &MockSource{Ingredients: []string{"tomatoes"}}
	builder := NewBuilder(source)

	patterns, err := builder.Build(context.Background())
	require.NoError(t, err)
	matcher := ner.NewMatcher(patterns)

	singular := matcher.Match("a tomato salad")
	plural := matcher.Match("some tomatoes")
	require.Len(t, singular, 1)
	require.Len(t, plural, 1)
	assert.Equal(t, singular[0].Lemma, plural[0].Lemma)
	assert.Equal(t, "tomato", singular[0].Lemma)
}
