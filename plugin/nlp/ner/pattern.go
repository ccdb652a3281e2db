// Package ner provides rule-based entity recognition over user queries.
// Patterns come from two places: a fixed set (ratings, diet labels, time
// expressions) and the lexicon built from the knowledge store at startup.
package ner

// Label identifies the kind of entity a pattern recognizes.
type Label string

const (
	LabelIngredient  Label = "INGREDIENT"
	LabelCuisine     Label = "CUISINE"
	LabelCategory    Label = "CATEGORY"
	LabelDietLabel   Label = "DIET_LABEL"
	LabelRatingValue Label = "RATING_VALUE"
	LabelTime        Label = "TIME"
)

// TokenPredicate matches a single token of the input.
// When LikeNum is set the predicate matches any digit-run token,
// otherwise Text is compared against the token's lower form.
type TokenPredicate struct {
	Text    string
	LikeNum bool
}

// Pattern is an ordered token sequence that produces a tagged span.
// Lemma, when set, is recorded on the span as the normalized base form;
// an empty Lemma falls back to the matched text's lower form.
type Pattern struct {
	Label  Label
	Tokens []TokenPredicate
	Lemma  string
}

// Span is a contiguous run of input text tagged with a semantic label.
type Span struct {
	Text  string
	Label Label
	Lemma string
}

// FixedPatterns returns the patterns that do not depend on the lexicon:
// star ratings, diet labels, and time expressions.
func FixedPatterns() []Pattern {
	return []Pattern{
		{Label: LabelRatingValue, Tokens: []TokenPredicate{{LikeNum: true}, {Text: "stars"}}},
		{Label: LabelRatingValue, Tokens: []TokenPredicate{{LikeNum: true}, {Text: "star"}}},
		{Label: LabelRatingValue, Tokens: []TokenPredicate{{LikeNum: true}, {Text: "★"}}},

		{Label: LabelDietLabel, Tokens: []TokenPredicate{{Text: "healthy"}}},
		{Label: LabelDietLabel, Tokens: []TokenPredicate{{Text: "vegan"}}},
		{Label: LabelDietLabel, Tokens: []TokenPredicate{{Text: "vegetarian"}}},

		{Label: LabelTime, Tokens: []TokenPredicate{{LikeNum: true}, {Text: "minutes"}}},
		{Label: LabelTime, Tokens: []TokenPredicate{{LikeNum: true}, {Text: "minute"}}},
	}
}

// TermPattern builds a single-token lexicon pattern for a domain term.
func TermPattern(label Label, term, lemma string) Pattern {
	return Pattern{
		Label:  label,
		Tokens: []TokenPredicate{{Text: term}},
		Lemma:  lemma,
	}
}
