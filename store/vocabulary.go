package store

// Vocabulary is the food domain's term collections. The lexicon builder
// expands these into match patterns at startup.
type Vocabulary struct {
	Ingredients []string
	Cuisines    []string
	Categories  []string
}

// DemoVocabulary is the seed data for demo mode so the assistant
// recognizes entities out of the box. Terms are single tokens, stored
// in singular form; the lexicon builder derives the plurals.
func DemoVocabulary() Vocabulary {
	return Vocabulary{
		Ingredients: []string{
			"beef", "broccoli", "chicken", "egg", "garlic",
			"onion", "peanut", "rice", "strawberry", "tomato",
		},
		Cuisines: []string{
			"chinese", "greek", "indian", "italian", "mexican", "thai",
		},
		Categories: []string{
			"appetizer", "dessert", "salad", "smoothie", "snack", "soup",
		},
	}
}
